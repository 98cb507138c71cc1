package services

import (
	"errors"
	"strings"
	"time"
	"workshop_manager/internal/access"
	"workshop_manager/internal/auth"
	"workshop_manager/internal/models"
	"workshop_manager/internal/redis"
	"workshop_manager/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type AccountInput struct {
	Username      string      `json:"username" binding:"required,max=150"`
	Password      string      `json:"password" binding:"required,min=6"`
	Email         string      `json:"email" binding:"omitempty,email"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	Staff         bool        `json:"staff"`
	Superuser     bool        `json:"superuser"`
	Groups        []string    `json:"groups"`
	Role          models.Role `json:"role"`
	DashboardPath string      `json:"dashboard_path"`
	Phone         string      `json:"phone"`
}

// Session is the result of a successful login.
type Session struct {
	ID          string           `json:"-"`
	Token       string           `json:"token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Principal   access.Principal `json:"principal"`
	LandingPath string           `json:"landing_path"`
}

type AccountService interface {
	CreateAccount(actor *access.Principal, input AccountInput) (*models.User, *models.UserProfile, error)
	Authenticate(username, password string) (*models.User, error)
	Login(username, password string) (*Session, error)
	Logout(sessionID string) error
	Me(userID uint) (*models.User, error)
}

type accountService struct {
	store          *repository.Store
	sessions       *redis.Client
	tokens         *auth.TokenService
	sessionTimeout time.Duration
}

func NewAccountService(store *repository.Store, sessions *redis.Client, tokens *auth.TokenService, sessionTimeout time.Duration) AccountService {
	return &accountService{store: store, sessions: sessions, tokens: tokens, sessionTimeout: sessionTimeout}
}

// CreateAccount creates a user, its groups and, for anyone who is not a
// superuser, its profile, all in one transaction. A nil actor is the
// system itself (seeding).
func (s *accountService) CreateAccount(actor *access.Principal, input AccountInput) (*models.User, *models.UserProfile, error) {
	if actor != nil && !actor.Can(access.ManageStaff) {
		return nil, nil, ErrForbidden
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, nil, invalid("username", "is required")
	}
	if input.Role != "" && !input.Role.Valid() {
		return nil, nil, invalid("role", "must be one of manager, mechanic, front_desk")
	}
	if input.Superuser && actor != nil && !actor.Superuser {
		return nil, nil, ErrForbidden
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	var user *models.User
	var profile *models.UserProfile
	err = s.store.Transaction(func(tx *repository.Store) error {
		if _, err := tx.Users.GetByUsername(username); err == nil {
			return invalid("username", "is already taken")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		user = &models.User{
			Username:     username,
			Email:        strings.TrimSpace(input.Email),
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
			PasswordHash: hash,
			IsActive:     true,
			IsStaff:      input.Staff || input.Superuser,
			IsSuperuser:  input.Superuser,
		}
		if err := tx.Users.Create(user); err != nil {
			return err
		}

		groups := make([]models.Group, 0, len(input.Groups))
		for _, name := range input.Groups {
			group, _, err := tx.Users.GetOrCreateGroup(strings.TrimSpace(name), access.NormalizeName)
			if err != nil {
				return err
			}
			groups = append(groups, *group)
		}
		if len(groups) > 0 {
			if err := tx.Users.ReplaceGroups(user, groups); err != nil {
				return err
			}
		}

		if user.IsSuperuser {
			return nil
		}
		role := input.Role
		if role == "" {
			role = access.RoleFromGroups(input.Groups)
		}
		profile = &models.UserProfile{
			UserID:        user.ID,
			Role:          role,
			DashboardPath: strings.TrimSpace(input.DashboardPath),
			Phone:         strings.TrimSpace(input.Phone),
			Active:        true,
		}
		return tx.Users.CreateProfile(profile)
	})
	if err != nil {
		return nil, nil, err
	}

	user.Profile = profile
	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("Account created")
	return user, profile, nil
}

// Authenticate distinguishes unknown users, inactive accounts and wrong
// passwords. Callers decide how much of that to reveal.
func (s *accountService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.store.Users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrWrongPassword
	}
	return user, nil
}

func (s *accountService) Login(username, password string) (*Session, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		log.WithError(err).WithField("username", username).Warn("Login failed")
		return nil, err
	}

	principal := access.NewPrincipal(user)
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.Issue(sessionID, user.ID)
	if err != nil {
		return nil, err
	}

	data := &redis.SessionData{
		UserID:     principal.UserID,
		Username:   principal.Username,
		Role:       principal.Role,
		Superuser:  principal.Superuser,
		MechanicID: principal.MechanicID,
		CreatedAt:  time.Now(),
	}
	if err := s.sessions.SetSession(sessionID, data, s.sessionTimeout); err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.store.Users.Update(user); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	log.WithFields(log.Fields{"user_id": user.ID, "role": principal.Role}).Info("User logged in")
	return &Session{
		ID:          sessionID,
		Token:       token,
		ExpiresAt:   expiresAt,
		Principal:   principal,
		LandingPath: access.LandingPath(principal.Role, user.Profile),
	}, nil
}

func (s *accountService) Logout(sessionID string) error {
	return s.sessions.DeleteSession(sessionID)
}

func (s *accountService) Me(userID uint) (*models.User, error) {
	return s.store.Users.GetByID(userID)
}
