package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"kanny/internal/auth"
	"kanny/internal/model"
	"kanny/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RefreshCookie is the cookie carrying the refresh token.
const RefreshCookie = "refreshToken"

type AuthHandler struct {
	users        repository.UserStore
	issuer       *auth.Issuer
	verifier     auth.IdentityVerifier
	cookieSecure bool
}

func NewAuthHandler(users repository.UserStore, issuer *auth.Issuer, verifier auth.IdentityVerifier, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		users:        users,
		issuer:       issuer,
		verifier:     verifier,
		cookieSecure: cookieSecure,
	}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type FederatedLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Signup godoc
// @Summary  Create an account
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    body body SignupRequest true "Account"
// @Success  201 {object} AuthResponse
// @Router   /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Email, password (6+ characters) and name are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing != nil {
		errorJSON(c, http.StatusConflict, "User with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &model.User{
		Email:          req.Email,
		Name:           strings.TrimSpace(req.Name),
		HashedPassword: string(hash),
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			errorJSON(c, http.StatusConflict, "User with this email already exists")
			return
		}
		errorJSON(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.issueSession(c, http.StatusCreated, user)
}

// Login godoc
// @Summary  Log in with email and password
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "Credentials"
// @Success  200 {object} AuthResponse
// @Router   /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || user.HashedPassword == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		errorJSON(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.issueSession(c, http.StatusOK, user)
}

// FederatedLogin exchanges an identity provider ID token for a session,
// creating the account on first use.
func (h *AuthHandler) FederatedLogin(c *gin.Context) {
	var req FederatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "ID token is required")
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "Invalid Firebase ID token")
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.FindByFederatedID(ctx, identity.Subject)
	if err == nil && user == nil {
		user, err = h.users.FindByEmail(ctx, strings.ToLower(identity.Email))
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if user == nil {
		user = &model.User{
			Email:       strings.ToLower(identity.Email),
			Name:        identity.Name,
			FederatedID: identity.Subject,
		}
		if user.Name == "" {
			user.Name, _, _ = strings.Cut(user.Email, "@")
		}
		if identity.Picture != "" {
			picture := identity.Picture
			user.Avatar = &picture
		}
		if err := h.users.Create(ctx, user); err != nil {
			errorJSON(c, http.StatusInternalServerError, "Failed to create user")
			return
		}
	}

	h.issueSession(c, http.StatusOK, user)
}

// Logout clears the refresh cookie. Access tokens are stateless and simply
// expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookie, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Refresh issues a new access token from the refresh cookie and rotates the
// cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(RefreshCookie)
	if err != nil || token == "" {
		errorJSON(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	subject, err := h.issuer.ParseToken(token, auth.KindRefresh)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "Token expired")
		return
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, "Token expired")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		errorJSON(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	access, ok := h.setTokens(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: access})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		errorJSON(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *AuthHandler) issueSession(c *gin.Context, status int, user *model.User) {
	access, ok := h.setTokens(c, user)
	if !ok {
		return
	}
	c.JSON(status, AuthResponse{AccessToken: access, User: newUserResponse(user)})
}

// setTokens signs a fresh access token and sets the refresh cookie.
func (h *AuthHandler) setTokens(c *gin.Context, user *model.User) (string, bool) {
	access, err := h.issuer.GenerateAccessToken(user.ID.String())
	if err != nil {
		log.Printf("❌ signing access token: %v", err)
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return "", false
	}
	refresh, err := h.issuer.GenerateRefreshToken(user.ID.String())
	if err != nil {
		log.Printf("❌ signing refresh token: %v", err)
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return "", false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookie, refresh, int(h.issuer.RefreshTTL().Seconds()), "/", "", h.cookieSecure, true)
	return access, true
}
