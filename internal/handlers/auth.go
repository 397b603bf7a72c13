package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/minaharu/timebank-api/internal/constants"
	"github.com/minaharu/timebank-api/internal/dto"
	apierrors "github.com/minaharu/timebank-api/internal/errors"
	"github.com/minaharu/timebank-api/internal/identity"
	"github.com/minaharu/timebank-api/internal/middleware"
	"github.com/minaharu/timebank-api/internal/services"
)

// AuthHandler establishes and tears down sessions from provider-issued
// tokens. Authentication itself happens at the identity provider.
type AuthHandler struct {
	verifier identity.Verifier
	ledger   *services.LedgerService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(verifier identity.Verifier, ledger *services.LedgerService) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		ledger:   ledger,
	}
}

// CreateSession verifies a provider ID token, stores the identity in the
// session, and lazily initializes the user's credit record.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	type SessionRequest struct {
		IDToken string `json:"id_token" binding:"required"`
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ident, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidToken):
			apierrors.Unauthorized(c, "Invalid identity token")
		case errors.Is(err, identity.ErrNotConfigured):
			apierrors.ServiceUnavailable(c, "Identity verification is not configured")
		default:
			apierrors.ServiceUnavailable(c, "Identity provider unavailable")
		}
		return
	}

	if err := h.ledger.EnsureInitialized(ident); err != nil {
		apierrors.InternalError(c, "Failed to initialize credits")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, ident.UID)
	session.Set(constants.SessionKeyDisplayName, ident.DisplayName)
	session.Set(constants.SessionKeyEmail, ident.Email)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	balance, err := h.ledger.GetBalance(ident.UID)
	if err != nil {
		apierrors.InternalError(c, "Failed to read balance")
		return
	}

	c.JSON(http.StatusCreated, dto.ToSessionUserDTO(ident, balance))
}

// DeleteSession removes the authentication session.
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated identity and its balance.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	ident, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	balance, err := h.ledger.GetBalance(ident.UID)
	if err != nil {
		apierrors.InternalError(c, "Failed to read balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionUserDTO(ident, balance))
}
