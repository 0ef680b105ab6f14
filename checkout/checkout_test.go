package checkout

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pikacards/storefront/auth"
	"github.com/pikacards/storefront/cart"
	"github.com/pikacards/storefront/catalog"
	"github.com/pikacards/storefront/profile"
	"github.com/pikacards/storefront/remote"
	"github.com/pikacards/storefront/storage/memory"
	"github.com/stretchr/testify/require"
)

func tokenWithExp(exp time.Time) string {
	enc := base64.RawURLEncoding.EncodeToString
	header := enc([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := enc([]byte(fmt.Sprintf(`{"exp":%d}`, exp.Unix())))
	return header + "." + payload + "." + enc([]byte("sig"))
}

// checkoutBackend is a recording stub of the cart/checkout endpoints.
type checkoutBackend struct {
	mu        sync.Mutex
	requests  []string
	adds      []string
	lines     []remote.Line
	sessionID string
	status    int
	errBody   string
}

func (b *checkoutBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/cart/":
			json.NewEncoder(w).Encode(b.lines)
		case r.Method == http.MethodPost && r.URL.Path == "/cart/add/":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			b.adds = append(b.adds, body["card_id"])
		case r.Method == http.MethodPost && r.URL.Path == "/cart/checkout/":
			if b.status != 0 {
				w.WriteHeader(b.status)
				w.Write([]byte(b.errBody))
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example/s/" + b.sessionID})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})
}

func (b *checkoutBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

type recordingNav struct {
	urls []string
}

func (n *recordingNav) Navigate(url string) error {
	n.urls = append(n.urls, url)
	return nil
}

type fixture struct {
	cart     *cart.Store
	sessions *auth.Store
	profiles *profile.Store
	backend  *checkoutBackend
	nav      *recordingNav
	orch     *Orchestrator
}

func newFixture(t *testing.T, backend *checkoutBackend) *fixture {
	t.Helper()
	repo := memory.NewRepository()
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	sessions := auth.NewStore(repo)
	f := &fixture{
		cart:     cart.NewStore(repo),
		sessions: sessions,
		profiles: profile.NewStore(repo),
		backend:  backend,
		nav:      &recordingNav{},
	}
	f.orch = New(f.cart, f.sessions, f.profiles, remote.NewClient(srv.URL, sessions), WithNavigator(f.nav))
	return f
}

func (f *fixture) signIn(t *testing.T, exp time.Time) {
	t.Helper()
	require.NoError(t, f.sessions.Save(&auth.Session{
		Token: tokenWithExp(exp),
		User:  auth.User{Username: "ash"},
	}))
}

func (f *fixture) completeProfile(t *testing.T) {
	t.Helper()
	require.NoError(t, f.profiles.Save("ash", profile.ShippingProfile{
		Province: "Lima",
		Address:  "Av. Arequipa 123",
	}))
}

func TestEmptyCartIsTerminalAndCostsNoNetwork(t *testing.T) {
	f := newFixture(t, &checkoutBackend{})
	f.signIn(t, time.Now().Add(time.Hour))
	f.completeProfile(t)

	_, err := f.orch.Checkout(context.Background())
	require.True(t, errors.Is(err, ErrEmptyCart))
	require.Zero(t, f.backend.requestCount())
	require.Empty(t, f.nav.urls)
}

func TestIncompleteProfileRedirects(t *testing.T) {
	f := newFixture(t, &checkoutBackend{})
	f.signIn(t, time.Now().Add(time.Hour))
	require.NoError(t, f.profiles.Save("ash", profile.ShippingProfile{Province: "Lima"}))
	f.cart.Add(catalog.Card{ID: "base1-4", Name: "Charizard", Price: 20})

	_, err := f.orch.Checkout(context.Background())
	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	require.Equal(t, TargetProfile, redirect.Target)
	require.Zero(t, f.backend.requestCount())
	require.Len(t, f.cart.Items(), 1, "cart must be untouched")
}

func TestExpiredSessionRedirectsToLogin(t *testing.T) {
	f := newFixture(t, &checkoutBackend{})
	f.signIn(t, time.Now().Add(-time.Hour))
	f.completeProfile(t)
	f.cart.Add(catalog.Card{ID: "base1-4", Name: "Charizard", Price: 20})

	_, err := f.orch.Checkout(context.Background())
	var redirect *RedirectError
	require.True(t, errors.As(err, &redirect))
	require.Equal(t, TargetLogin, redirect.Target)
	require.Equal(t, 2*time.Second, redirect.Delay)
	require.Zero(t, f.backend.requestCount())
}

func TestBootstrapPushesOneAddPerUnit(t *testing.T) {
	backend := &checkoutBackend{sessionID: "abc"}
	f := newFixture(t, backend)
	f.signIn(t, time.Now().Add(time.Hour))
	f.completeProfile(t)

	f.cart.Add(catalog.Card{ID: "A", Name: "Alpha", Price: 10})
	f.cart.Add(catalog.Card{ID: "A", Name: "Alpha", Price: 10})
	f.cart.Add(catalog.Card{ID: "B", Name: "Beta", Price: 5})

	url, err := f.orch.Checkout(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/s/abc", url)
	require.Equal(t, []string{"A", "A", "B"}, backend.adds)
	require.Equal(t, []string{url}, f.nav.urls)

	// Adds happen after the remote read and before the session request.
	require.Equal(t, []string{
		"GET /cart/",
		"POST /cart/add/",
		"POST /cart/add/",
		"POST /cart/add/",
		"POST /cart/checkout/",
	}, backend.requests)
}

func TestNonEmptyRemoteCartSkipsBootstrap(t *testing.T) {
	backend := &checkoutBackend{
		sessionID: "abc",
		lines:     []remote.Line{{ID: 1, CardName: "Alpha"}},
	}
	f := newFixture(t, backend)
	f.signIn(t, time.Now().Add(time.Hour))
	f.completeProfile(t)
	f.cart.Add(catalog.Card{ID: "A", Name: "Alpha", Price: 10})

	_, err := f.orch.Checkout(context.Background())
	require.NoError(t, err)
	require.Empty(t, backend.adds)
}

func TestCheckoutSurfacesServerError(t *testing.T) {
	backend := &checkoutBackend{status: http.StatusBadRequest, errBody: `{"error":"card out of stock"}`}
	f := newFixture(t, backend)
	f.signIn(t, time.Now().Add(time.Hour))
	f.completeProfile(t)
	f.cart.Add(catalog.Card{ID: "A", Name: "Alpha", Price: 10})

	_, err := f.orch.Checkout(context.Background())
	require.EqualError(t, err, "card out of stock")
	require.Empty(t, f.nav.urls)
	require.Len(t, f.cart.Items(), 1, "checkout failure leaves cart retryable")
}

func TestCheckoutSurfacesUnauthorized(t *testing.T) {
	backend := &checkoutBackend{status: http.StatusUnauthorized, errBody: `{}`}
	f := newFixture(t, backend)
	f.signIn(t, time.Now().Add(time.Hour))
	f.completeProfile(t)
	f.cart.Add(catalog.Card{ID: "A", Name: "Alpha", Price: 10})

	_, err := f.orch.Checkout(context.Background())
	require.True(t, errors.Is(err, auth.ErrSessionExpired))
}
