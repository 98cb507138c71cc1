package handlers

import (
	"net/http"
	"time"
	"workshop_manager/internal/access"
	"workshop_manager/internal/middleware"
	"workshop_manager/internal/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	session, err := h.svc.Accounts.Login(req.Username, req.Password)
	if err != nil {
		if services.IsAuthError(err) {
			message := "Invalid username or password"
			if h.opts.VerboseAuthErrors {
				message = err.Error()
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}
		respondError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, session.Token, maxAge, "/", "", h.opts.SecureCookies, true)

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"principal":  session.Principal,
		"redirect":   session.LandingPath,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Accounts.Logout(middleware.SessionIDFrom(c)); err != nil {
		log.WithError(err).Warn("Failed to delete session")
	}
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.opts.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out", "redirect": "/api/auth/login"})
}

// Me returns the caller, their landing page and any pending flash messages.
func (h *Handler) Me(c *gin.Context) {
	p := principal(c)
	user, err := h.svc.Accounts.Me(p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	flashes, err := h.flashes.PopFlashes(p.UserID)
	if err != nil {
		log.WithError(err).Warn("Failed to read flash messages")
	}
	if flashes == nil {
		flashes = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"principal": p,
		"landing":   access.LandingPath(p.Role, user.Profile),
		"messages":  flashes,
	})
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var input services.AccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	p := principal(c)
	user, profile, err := h.svc.Accounts.CreateAccount(&p, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "profile": profile})
}

// flash queues a message for the caller's next request.
func (h *Handler) flash(c *gin.Context, message string) {
	if err := h.flashes.AddFlash(principal(c).UserID, message, h.opts.FlashTTL); err != nil {
		log.WithError(err).Warn("Failed to store flash message")
	}
}
