package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ash", body["username"])
		json.NewEncoder(w).Encode(map[string]any{
			"access":  "tok",
			"refresh": "ref",
			"user":    map[string]string{"username": "ash", "email": "ash@example.com"},
		})
	}))
	defer srv.Close()

	session, err := NewClient(srv.URL).Login(context.Background(), "ash", "pikachu")
	require.NoError(t, err)
	require.Equal(t, "tok", session.Token)
	require.Equal(t, "ref", session.RefreshToken)
	require.Equal(t, "ash@example.com", session.User.Email)
}

func TestLoginFallbackUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access": "tok"})
	}))
	defer srv.Close()

	session, err := NewClient(srv.URL).Login(context.Background(), "ash", "pikachu")
	require.NoError(t, err)
	require.Equal(t, "ash", session.User.Username)
}

func TestLoginErrorShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"bad credentials"}`, "bad credentials"},
		{"message field", `{"message":"try later"}`, "try later"},
		{"field array", `{"password":["too short"]}`, "too short"},
		{"field string", `{"username":"taken"}`, "taken"},
		{"bare string", `"nope"`, "nope"},
		{"unparseable", `<html>boom</html>`, "login failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Login(context.Background(), "ash", "pikachu")
			require.EqualError(t, err, tc.want)
		})
	}
}

func TestRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "account created"})
	}))
	defer srv.Close()

	msg, err := NewClient(srv.URL).Register(context.Background(), "ash", "ash@example.com", "pikachu")
	require.NoError(t, err)
	require.Equal(t, "account created", msg)
}
