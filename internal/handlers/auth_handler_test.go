package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/fxjournal/internal/auth"
)

func newAuthApp(users *fakeUserStore) (*fiber.App, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewAuthHandler(users, tokens, zap.NewNop())

	app := fiber.New()
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	return app, tokens
}

func jsonRequest(t *testing.T, payload interface{}) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestRegister(t *testing.T) {
	users := &fakeUserStore{}
	app, tokens := newAuthApp(users)

	req := httptest.NewRequest("POST", "/api/auth/register",
		jsonRequest(t, RegisterRequest{Email: "jane@example.com", Password: "hunter22", Name: "Jane"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var tr TokenResponse
	decodeBody(t, resp, &tr)
	assert.Equal(t, "bearer", tr.TokenType)
	assert.Equal(t, "jane@example.com", tr.User.Email)

	userID, err := tokens.Validate(tr.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tr.User.ID, userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &fakeUserStore{}
	app, _ := newAuthApp(users)

	payload := RegisterRequest{Email: "jane@example.com", Password: "hunter22", Name: "Jane"}
	for _, expected := range []int{fiber.StatusCreated, fiber.StatusBadRequest} {
		req := httptest.NewRequest("POST", "/api/auth/register", jsonRequest(t, payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, expected, resp.StatusCode)
	}
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	app, _ := newAuthApp(&fakeUserStore{})

	req := httptest.NewRequest("POST", "/api/auth/register",
		jsonRequest(t, RegisterRequest{Email: "jane@example.com"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	users := &fakeUserStore{}
	app, _ := newAuthApp(users)

	register := httptest.NewRequest("POST", "/api/auth/register",
		jsonRequest(t, RegisterRequest{Email: "jane@example.com", Password: "hunter22", Name: "Jane"}))
	register.Header.Set("Content-Type", "application/json")
	_, err := app.Test(register)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login",
			jsonRequest(t, LoginRequest{Email: "jane@example.com", Password: "hunter22"}))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var tr TokenResponse
		decodeBody(t, resp, &tr)
		assert.NotEmpty(t, tr.AccessToken)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login",
			jsonRequest(t, LoginRequest{Email: "jane@example.com", Password: "wrong"}))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login",
			jsonRequest(t, LoginRequest{Email: "nobody@example.com", Password: "hunter22"}))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestMe(t *testing.T) {
	users := &fakeUserStore{}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewAuthHandler(users, tokens, zap.NewNop())

	user, err := users.Create(context.Background(), "jane@example.com", "hash", "Jane")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(asUser(user.ID))
	app.Get("/api/auth/me", h.Me)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got map[string]interface{}
	decodeBody(t, resp, &got)
	assert.Equal(t, "jane@example.com", got["email"])
	assert.NotContains(t, got, "password_hash")
}
