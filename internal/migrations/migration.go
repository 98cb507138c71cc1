package migrations

import (
	"errors"
	"workshop_manager/internal/access"
	"workshop_manager/internal/auth"
	"workshop_manager/internal/database"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedAccount is one of the demo accounts created by SeedInitialData.
type SeedAccount struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Group     string
	Staff     bool
}

var SeedGroups = []string{"Encargado", "Mecánico", "Recepcionista"}

var SeedAccounts = []SeedAccount{
	{Username: "encargado", Password: "enc123", FirstName: "Juan", LastName: "Pérez", Email: "encargado@taller.com", Group: "Encargado", Staff: true},
	{Username: "mecanico", Password: "mec123", FirstName: "Carlos", LastName: "González", Email: "mecanico@taller.com", Group: "Mecánico"},
	{Username: "recepcionista", Password: "recep123", FirstName: "María", LastName: "López", Email: "recepcionista@taller.com", Group: "Recepcionista"},
}

// RunMigrations brings the schema up to date without dropping data.
func RunMigrations(db *gorm.DB) error {
	log.Info("Running database migrations...")
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	log.Info("Database migrations completed")
	return nil
}

// SeedInitialData creates the role groups and demo accounts. Existing
// accounts are reset to their seed state, so running it twice is harmless.
func SeedInitialData(store *repository.Store) error {
	return store.Transaction(func(tx *repository.Store) error {
		for _, name := range SeedGroups {
			_, created, err := tx.Users.GetOrCreateGroup(name, access.NormalizeName)
			if err != nil {
				return err
			}
			if created {
				log.WithField("group", name).Info("Group created")
			}
		}

		for _, seed := range SeedAccounts {
			if err := seedAccount(tx, seed); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedAccount(tx *repository.Store, seed SeedAccount) error {
	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	user, err := tx.Users.GetByUsername(seed.Username)
	created := false
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user = &models.User{Username: seed.Username}
		created = true
	case err != nil:
		return err
	}

	user.FirstName = seed.FirstName
	user.LastName = seed.LastName
	user.Email = seed.Email
	user.PasswordHash = hash
	user.IsActive = true
	user.IsStaff = seed.Staff
	user.IsSuperuser = false
	if created {
		err = tx.Users.Create(user)
	} else {
		err = tx.Users.Update(user)
	}
	if err != nil {
		return err
	}

	group, _, err := tx.Users.GetOrCreateGroup(seed.Group, access.NormalizeName)
	if err != nil {
		return err
	}
	if err := tx.Users.ReplaceGroups(user, []models.Group{*group}); err != nil {
		return err
	}

	role, _ := access.RoleForGroup(seed.Group)
	if err := seedProfile(tx, user, role); err != nil {
		return err
	}
	if role == models.RoleMechanic {
		if err := seedMechanic(tx, user); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"username": seed.Username,
		"group":    seed.Group,
		"staff":    seed.Staff,
		"created":  created,
	}).Info("Seed account ready")
	return nil
}

func seedProfile(tx *repository.Store, user *models.User, role models.Role) error {
	if user.Profile == nil {
		return tx.Users.CreateProfile(&models.UserProfile{UserID: user.ID, Role: role, Active: true})
	}
	user.Profile.Role = role
	user.Profile.Active = true
	return tx.Users.UpdateProfile(user.Profile)
}

func seedMechanic(tx *repository.Store, user *models.User) error {
	_, err := tx.Mechanics.GetByUserID(user.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return tx.Mechanics.Create(&models.Mechanic{
		UserID:    &user.ID,
		Name:      user.FullName(),
		Specialty: "General",
		Available: true,
	})
}

// FixUserPermissions strips staff and superuser flags from the non-manager
// seed accounts and makes sure the manager account is staff. Missing
// accounts are skipped.
func FixUserPermissions(store *repository.Store) error {
	return store.Transaction(func(tx *repository.Store) error {
		for _, seed := range SeedAccounts {
			user, err := tx.Users.GetByUsername(seed.Username)
			if errors.Is(err, repository.ErrNotFound) {
				log.WithField("username", seed.Username).Warn("User does not exist")
				continue
			}
			if err != nil {
				return err
			}

			entry := log.WithFields(log.Fields{
				"username":  user.Username,
				"staff":     user.IsStaff,
				"superuser": user.IsSuperuser,
			})
			if seed.Staff {
				if user.IsStaff {
					entry.Info("Permissions already correct")
					continue
				}
				user.IsStaff = true
			} else {
				if !user.IsStaff && !user.IsSuperuser {
					entry.Info("Permissions already correct")
					continue
				}
				user.IsStaff = false
				user.IsSuperuser = false
			}
			if err := tx.Users.Update(user); err != nil {
				return err
			}
			entry.Info("Permissions fixed")
		}
		return nil
	})
}
