package handlers

import (
	"fmt"
	"log"

	"MediPortal/middlewares"
	"MediPortal/models"
	"MediPortal/services"
	"MediPortal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth     services.AuthService
	state    *services.DashboardState
	resolver SessionResolver
}

func NewAuthHandler(auth services.AuthService, state *services.DashboardState, resolver SessionResolver) *AuthHandler {
	return &AuthHandler{auth: auth, state: state, resolver: resolver}
}

func claimsFor(user *models.User) utils.TokenClaims {
	return utils.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
		Photo:  user.Photo,
	}
}

// Register handles new user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var reg utils.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Register(ctx, reg)
	if err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("Registration failed: %v", err)})
		return
	}

	c.JSON(201, gin.H{"user": user})
}

// Login authenticates the user, opens the dashboard session and returns
// tokens along with user info.
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Authenticate(ctx, credentials.Email, credentials.Password)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid email or password"})
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(claimsFor(user))
	if err != nil {
		middlewares.HttpError(c, "Failed to generate tokens", 500, err)
		return
	}

	h.state.Login(ctx, *user)
	utils.SetAuthCookies(c, accessToken, refreshToken)

	c.JSON(200, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// RefreshToken refreshes the user's access token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token := middlewares.ExtractAccessToken(c)
	if token == "" {
		c.JSON(400, gin.H{"error": "access token is required"})
		return
	}

	claims, err := utils.ValidateToken(token,
		string(models.RolePatient), string(models.RoleDoctor), string(models.RoleAdmin))
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid access token"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(*claims)
	if err != nil {
		middlewares.HttpError(c, "Failed to generate access token", 500, err)
		return
	}

	c.JSON(200, gin.H{
		"accessToken": accessToken,
	})
}

// Session resolves the current user from the access token. An empty or
// invalid token is not an error: it simply means nobody is signed in.
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.resolver.GetCurrentUser(c)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to resolve session: %v", err)})
		return
	}
	c.JSON(200, gin.H{"user": user})
}

// Logoff closes the dashboard session and clears cookies.
func (h *AuthHandler) Logoff(c *gin.Context) {
	h.state.Logout(c.Request.Context())
	utils.ClearAuthCookies(c)
	c.Status(200)
}

// SendResetCode sends a password reset code to the user's email
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var data struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	account, err := h.auth.GetAccountByEmail(ctx, data.Email)
	if err != nil || account == nil {
		c.JSON(404, gin.H{"error": "Account not found"})
		return
	}

	code := utils.GenerateResetCode()
	if err := utils.SetResetCode(ctx, account.Email, code); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to set reset code: %v", err)})
		return
	}

	if err := utils.SendResetCodeEmail(account.Email, code); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to send reset code email: %v", err)})
		return
	}

	c.Status(200)
}

// ChangePassword updates the user's password after verifying the reset code
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var data struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if err := utils.ValidatePasswordReset(data.Code, data.NewPassword); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	storedCode, err := utils.GetResetCode(ctx, data.Email)
	if err != nil || storedCode == nil || *storedCode != data.Code {
		c.JSON(401, gin.H{"error": "Invalid reset code"})
		return
	}

	account, err := h.auth.GetAccountByEmail(ctx, data.Email)
	if err != nil || account == nil {
		c.JSON(404, gin.H{"error": "Account not found"})
		return
	}

	if err := h.auth.UpdatePassword(ctx, account.ID, data.NewPassword); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to update password: %v", err)})
		return
	}

	if err := utils.DeleteResetCode(ctx, data.Email); err != nil {
		log.Printf("failed to delete reset code for %s: %v", data.Email, err)
	}
	c.Status(200)
}

// DecryptRequest represents the expected JSON request body
type DecryptRequest struct {
	Token string `json:"token" binding:"required"`
}

// DecryptHandler decrypts a PASETO token and returns the extracted claims
func (h *AuthHandler) DecryptHandler(c *gin.Context) {
	var req DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request payload"})
		return
	}

	claims, err := utils.ValidateToken(req.Token)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid or expired token"})
		return
	}

	c.JSON(200, gin.H{
		"userId": claims.UserID,
		"email":  claims.Email,
		"role":   claims.Role,
		"expiry": claims.Expiry,
	})
}
