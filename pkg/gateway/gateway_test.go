package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hackdesk/hackdesk-api/pkg/session"
	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	client := New(server.URL, store, zerolog.Nop())
	return client, store, server
}

func authenticate(t *testing.T, store *session.Store) {
	t.Helper()
	require.NoError(t, store.SetAuth("bearer-token", session.Identity{
		ID:    1,
		Email: "user@example.com",
		Role:  workflow.RoleStudent,
	}))
}

func TestLoginAcceptsEnvelopedPayload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"message": "login successful",
			"data": {"token": "issued-token", "user": {"id": 3, "email": "a@b.c", "role": "supervisyer"}}
		}`))
	})

	client, store, _ := newTestClient(t, handler)

	identity, err := client.Auth.Login(context.Background(), "a@b.c", "secret123")
	require.NoError(t, err)
	require.Equal(t, workflow.RoleSupervisor, identity.Role)
	require.True(t, store.Authenticated())
	require.Equal(t, "issued-token", store.Credential())
}

func TestLoginAcceptsBarePayload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token": "issued-token", "user": {"id": 3, "email": "a@b.c", "role": "admin"}}`))
	})

	client, store, _ := newTestClient(t, handler)

	identity, err := client.Auth.Login(context.Background(), "a@b.c", "secret123")
	require.NoError(t, err)
	require.Equal(t, workflow.RoleAdmin, identity.Role)
	require.True(t, store.Authenticated())
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "message": "token expired"}`))
	})

	client, store, _ := newTestClient(t, handler)
	authenticate(t, store)

	_, err := client.Student.Projects(context.Background())
	require.True(t, IsKind(err, KindAuthDenied))
	require.Contains(t, err.Error(), "token expired")
	require.False(t, store.Authenticated())
}

func TestProtectedCallWithoutCredentialShortCircuits(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	client, _, _ := newTestClient(t, handler)

	_, err := client.Tasks.List(context.Background())
	require.True(t, IsKind(err, KindAuthRequired))
	require.Zero(t, requests)
}

func TestValidationFailureCarriesServerMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success": false, "message": "cannot update a submitted project"}`))
	})

	client, store, _ := newTestClient(t, handler)
	authenticate(t, store)

	_, err := client.Student.Update(context.Background(), 4, ProjectEdit{})
	require.True(t, IsKind(err, KindValidationFailed))
	require.Contains(t, err.Error(), "cannot update a submitted project")
	require.True(t, store.Authenticated())
}

func TestNotFoundIsTyped(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, store, _ := newTestClient(t, handler)
	authenticate(t, store)

	_, err := client.Tasks.Get(context.Background(), 99)
	require.True(t, IsKind(err, KindNotFound))
}

func TestNetworkFailureIsTransport(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	client := New("http://127.0.0.1:1", store, zerolog.Nop())
	authenticate(t, store)

	_, err := client.Student.Projects(context.Background())
	require.True(t, IsKind(err, KindTransportFailure))
}

func TestBearerCredentialAttached(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": []}`))
	})

	client, store, _ := newTestClient(t, handler)
	authenticate(t, store)

	_, err := client.Student.Projects(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer bearer-token", got)
}

func TestSetStatusRoundTripsLabel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/tasks/7", r.URL.Path)

		var update TaskUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		require.NotNil(t, update.Status)

		w.Header().Set("Content-Type", "application/json")
		response := map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 7, "status": *update.Status},
		}
		json.NewEncoder(w).Encode(response)
	})

	client, store, _ := newTestClient(t, handler)
	authenticate(t, store)

	project, err := client.Tasks.SetStatus(context.Background(), 7, "Directed to Interface 2")
	require.NoError(t, err)
	require.Equal(t, "Directed to Interface 2", project.Status)
}

func TestSendProgramBuildsMultipartBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "orientation week", r.FormValue("message"))
		require.Equal(t, "2026-10-01", r.FormValue("training_date"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "program.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"id": 1, "project_id": 7, "pdfUrl": "https://cdn.example.com/program.pdf"}}`))
	})

	client, store, _ := newTestClient(t, handler)
	authenticate(t, store)

	program, err := client.Supervisor.SendProgram(context.Background(), 7, ProgramUpload{
		FileName:     "program.pdf",
		File:         strings.NewReader("%PDF-1.4 fake"),
		Message:      "orientation week",
		TrainingDate: "2026-10-01",
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/program.pdf", program.PDFURL)
}

func TestLogoutClearsSessionEvenWhenServerRejects(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, store, _ := newTestClient(t, handler)
	authenticate(t, store)

	require.NoError(t, client.Auth.Logout(context.Background()))
	require.False(t, store.Authenticated())
}
