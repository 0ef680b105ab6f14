package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pikacards/storefront/auth"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() (string, bool) {
	return string(s), s != ""
}

func TestOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/history/", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 42, "created_at": "2026-08-01T10:00:00Z", "total": "45.00",
			 "items": [{"product_id": "base1-4", "product_name": "Charizard",
			            "product_image": "https://img/c.png", "quantity": 2, "price": "20.00"}]}
		]`))
	}))
	defer srv.Close()

	orders, err := NewClient(srv.URL, staticToken("tok")).Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, int64(42), orders[0].ID)
	require.Equal(t, "45", orders[0].Total.String())
	require.Equal(t, "Charizard", orders[0].Items[0].ProductName)
}

func TestOrdersUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, staticToken("tok")).Orders(context.Background())
	require.True(t, errors.Is(err, auth.ErrSessionExpired))
}

func TestOrdersJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database down"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, staticToken("tok")).Orders(context.Background())
	require.EqualError(t, err, "database down")
}

func TestOrdersTextErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, staticToken("tok")).Orders(context.Background())
	require.ErrorContains(t, err, "bad gateway")
}
