package accounts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudai-mobility/monopatines/internal/models"
)

func TestClient_CreateUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.DummyUser
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "lucia@example.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data": models.User{
				ID:    1,
				Email: req.Email,
				Roles: []string{models.RoleUser},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	user, err := client.CreateUser(context.Background(), models.DummyUser{
		FirstName:    "Lucia",
		LastName:     "Fernandez",
		Email:        "lucia@example.com",
		PhoneNumber:  "+54-249-1",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, []string{models.RoleUser}, user.Roles)
}

func TestClient_CreateUser_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "Error", "error": "user already exists"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.CreateUser(context.Background(), models.DummyUser{Email: "lucia@example.com"})
	require.ErrorIs(t, err, models.ErrUserAlreadyExists)
}

func TestClient_GetUserByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "lucia+test@example.com", r.URL.Query().Get("email"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data":   models.User{ID: 7, Email: "lucia+test@example.com"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	// email с спецсимволами должен переживать URL-кодирование
	user, err := client.GetUserByEmail(context.Background(), "lucia+test@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
}

func TestClient_GetUserByEmail_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "Error", "error": "user not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.GetUserByEmail(context.Background(), "missing@example.com")
	require.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestClient_ValidatePassword(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{name: "верный пароль", valid: true},
		{name: "неверный пароль", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/users/validate-password", r.URL.Path)

				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "lucia@example.com", req["email"])

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"status": "OK",
					"data":   map[string]bool{"valid": tt.valid},
				})
			}))
			defer server.Close()

			client := NewClient(server.URL)

			valid, err := client.ValidatePassword(context.Background(), "lucia@example.com", "secreto123")
			require.NoError(t, err)
			assert.Equal(t, tt.valid, valid)
		})
	}
}
