package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/hackdesk/hackdesk-api/internal/dto"
)

func TestRegisterIssuesTokenAndIdentity(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":     "New.Student@Example.com",
		"password":  "secret-pass-1",
		"firstname": "Nadia",
		"lastname":  "Rahal",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	env := decodeResponse(t, resp)
	require.True(t, env.Success)
	require.Equal(t, "registration successful", env.Message)

	var auth dto.AuthResponse
	decodeData(t, env, &auth)
	require.NotEmpty(t, auth.Token)
	require.Equal(t, "new.student@example.com", auth.User.Email)
	require.Equal(t, "student", auth.User.Role)
}

func TestRegisterNormalizesRoleVariant(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":     "reviewer@example.com",
		"password":  "secret-pass-1",
		"firstname": "Rami",
		"role":      "supervisyer",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var auth dto.AuthResponse
	decodeData(t, decodeResponse(t, resp), &auth)
	require.Equal(t, "supervisor", auth.User.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	app, _ := setupApp(t)

	payload := map[string]string{
		"email":     "dup@example.com",
		"password":  "secret-pass-1",
		"firstname": "First",
	}
	resp := doJSON(t, app, "POST", "/api/v1/auth/register", "", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/v1/auth/register", "", payload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	env := decodeResponse(t, resp)
	require.False(t, env.Success)
	require.Equal(t, "email already registered", env.Message)
}

func TestLoginRoundTrip(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":     "login@example.com",
		"password":  "secret-pass-1",
		"firstname": "Lina",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "secret-pass-1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var auth dto.AuthResponse
	decodeData(t, decodeResponse(t, resp), &auth)
	require.NotEmpty(t, auth.Token)

	resp = doJSON(t, app, "GET", "/api/v1/auth/user", auth.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user dto.UserResponse
	decodeData(t, decodeResponse(t, resp), &user)
	require.Equal(t, "login@example.com", user.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":     "wrongpass@example.com",
		"password":  "secret-pass-1",
		"firstname": "Omar",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "wrongpass@example.com",
		"password": "not-the-password",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	env := decodeResponse(t, resp)
	require.Equal(t, "invalid email or password", env.Message)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/api/v1/auth/user", "/api/v1/tasks", "/api/v1/student/projects"} {
		resp := doJSON(t, app, "GET", path, "", nil)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestLogoutAcknowledges(t *testing.T) {
	app, db := setupApp(t)
	user := seedUser(t, db, "bye@example.com", "student")

	resp := doJSON(t, app, "POST", "/api/v1/auth/logout", tokenFor(t, user), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeResponse(t, resp)
	require.True(t, env.Success)
	require.Equal(t, "logged out successfully", env.Message)
}
