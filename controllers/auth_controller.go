package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deeplehr/checkin/config"
	"github.com/deeplehr/checkin/middleware"
	"github.com/deeplehr/checkin/models"
	"github.com/deeplehr/checkin/session"
	"github.com/deeplehr/checkin/utils"
)

// AuthController handles the nickname/email login of the event page.
type AuthController struct {
	sessions *session.Manager
}

// NewAuthController creates a new controller instance.
func NewAuthController(sessions *session.Manager) *AuthController {
	return &AuthController{sessions: sessions}
}

// Login starts a session from a nickname and an email. There is no password;
// the token is only a handle to the session's stored state.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Nickname string `json:"nickname" binding:"required"`
		Email    string `json:"email" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	nickname := strings.TrimSpace(utils.SanitizeNickname(req.Nickname))
	email := strings.TrimSpace(req.Email)

	if nickname == "" || len([]rune(nickname)) > 20 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "nickname must be 1 to 20 characters")
		return
	}
	if !strings.Contains(email, "@") {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid email format")
		return
	}

	now := time.Now()
	user := models.UserInfo{
		Nickname:  nickname,
		Email:     email,
		JoinDate:  now,
		LastLogin: now,
	}
	sid := a.sessions.Login(ctx.Request.Context(), user)

	cfg := config.Get()
	token, err := utils.GenerateToken(sid, nickname, time.Duration(cfg.TokenTTLHours)*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout clears all session keys and revokes the presented token.
func (a *AuthController) Logout(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	authHeader := ctx.GetHeader("Authorization")
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 {
		tokenString := strings.TrimSpace(parts[1])
		if claims, err := utils.ParseToken(tokenString); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(tokenString, claims.ExpiresAt.Time)
		}
	}

	a.sessions.Logout(ctx.Request.Context(), sid)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the stored profile and refreshes its last-login stamp.
func (a *AuthController) Me(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	user, ok := a.sessions.User(ctx.Request.Context(), sid)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "session expired")
		return
	}

	now := time.Now()
	a.sessions.TouchLastLogin(ctx.Request.Context(), sid, now)
	user.LastLogin = now

	utils.Success(ctx, user)
}

func getSessionID(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(middleware.ContextSessionIDKey)
	if !exists {
		return "", false
	}
	s, ok := value.(string)
	return s, ok && s != ""
}
