package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/deeplehr/checkin/session"
	"github.com/deeplehr/checkin/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newLoginRouter() (*gin.Engine, *session.Manager) {
	sessions := session.NewManager(session.NewMemory(), nil)
	r := gin.New()
	r.POST("/api/auth/login", NewAuthController(sessions).Login)
	return r, sessions
}

func postLogin(t *testing.T, r *gin.Engine, body any) (*httptest.ResponseRecorder, utils.JSONResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestLoginSuccess(t *testing.T) {
	r, sessions := newLoginRouter()

	w, resp := postLogin(t, r, gin.H{"nickname": "나현재", "email": "me@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, resp.Code)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, data["token"])

	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "나현재", user["nickname"])
	require.Equal(t, "me@example.com", user["email"])

	claims, err := utils.ParseToken(data["token"].(string))
	require.NoError(t, err)
	require.Equal(t, "나현재", claims.Nickname)
	require.True(t, sessions.LoggedIn(context.Background(), claims.SessionID))
}

func TestLoginMissingFields(t *testing.T) {
	r, _ := newLoginRouter()

	w, resp := postLogin(t, r, gin.H{"nickname": "나현재"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 40001, resp.Code)

	w, resp = postLogin(t, r, gin.H{"email": "me@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 40001, resp.Code)
}

func TestLoginNicknameValidation(t *testing.T) {
	r, _ := newLoginRouter()

	// whitespace only collapses to empty after sanitizing
	w, resp := postLogin(t, r, gin.H{"nickname": "   ", "email": "me@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 40002, resp.Code)

	long := make([]rune, 21)
	for i := range long {
		long[i] = '가'
	}
	w, resp = postLogin(t, r, gin.H{"nickname": string(long), "email": "me@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 40002, resp.Code)

	// markup is stripped, not rejected
	w, resp = postLogin(t, r, gin.H{"nickname": "<b>현재</b>", "email": "me@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	user := resp.Data.(map[string]any)["user"].(map[string]any)
	require.Equal(t, "현재", user["nickname"])
}

func TestLoginEmailValidation(t *testing.T) {
	r, _ := newLoginRouter()

	w, resp := postLogin(t, r, gin.H{"nickname": "나현재", "email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 40003, resp.Code)
}
