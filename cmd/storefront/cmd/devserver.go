package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pikacards/storefront/auth"
	"github.com/pikacards/storefront/catalog"
	"github.com/pikacards/storefront/history"
	"github.com/shopspring/decimal"
)

var (
	devPort         int
	devWebhookDelay time.Duration
)

// devSecret signs dev tokens. The stub accepts any credentials; there is
// nothing to protect.
var devSecret = []byte("pikacards-dev")

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory stub of the storefront backend",
	Long: `Run an in-memory stub of the storefront backend for local development.

It serves the catalog, cart, checkout, and history contracts. Checkout
"payments" complete instantly, but the order only appears in the history
after a configurable webhook delay, which is what the history --success
poller exists to absorb.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := newDevState()

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login/", state.login)
			r.Post("/register/", state.register)
		})
		r.Route("/api", func(r chi.Router) {
			r.Get("/cards/{cardID}/", state.getCard)
			r.Group(func(r chi.Router) {
				r.Use(state.requireAuth)
				r.Get("/cart/", state.listCart)
				r.Post("/cart/add/", state.addToCart)
				r.Delete("/cart/remove/{lineID}/", state.removeLine)
				r.Post("/cart/checkout/", state.checkout)
				r.Get("/history/", state.listHistory)
			})
		})
		r.Get("/pay/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "Payment simulated for session %s.\nReturn to the client and run: storefront history --success\n",
				chi.URLParam(r, "sessionID"))
		})

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", devPort),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("devserver failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Dev backend on port %d (webhook delay %s)...\n", devPort, devWebhookDelay)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("devserver shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

type devLine struct {
	ID       int64  `json:"id"`
	CardID   string `json:"card_id"`
	CardName string `json:"card_name"`
	Quantity int    `json:"quantity"`
}

type devState struct {
	mu        sync.Mutex
	nextLine  int64
	nextOrder int64
	cards     map[string]catalog.Card
	carts     map[string][]devLine
	orders    map[string][]history.Order
}

func newDevState() *devState {
	cards := []catalog.Card{
		{ID: "base1-4", Name: "Charizard", Image: "https://images.pokemontcg.io/base1/4.png", Price: 89.99, Set: "Base", Rarity: "Rare Holo"},
		{ID: "base1-58", Name: "Pikachu", Image: "https://images.pokemontcg.io/base1/58.png", Price: 4.5, Set: "Base", Rarity: "Common"},
		{ID: "base1-15", Name: "Venusaur", Image: "https://images.pokemontcg.io/base1/15.png", Set: "Base", Rarity: "Rare Holo"},
		{ID: "xy7-54", Name: "Gardevoir", Set: "Ancient Origins"},
	}
	byID := make(map[string]catalog.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	return &devState{
		cards:  byID,
		carts:  make(map[string][]devLine),
		orders: make(map[string][]history.Order),
	}
}

func (s *devState) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": body.Username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString(devSecret)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access":  token,
		"refresh": uuid.NewString(),
		"user":    map[string]string{"username": body.Username},
	})
}

func (s *devState) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"username": "this field is required"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "account created, you can sign in now"})
}

type devUserKey struct{}

// requireAuth accepts any bearer token with an unexpired exp claim and a
// username claim. This is a dev stub; signatures are not checked.
func (s *devState) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}
		token := header[len(prefix):]
		if auth.TokenExpired(token, time.Now()) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
			return
		}
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "malformed token"})
			return
		}
		username, _ := claims["username"].(string)
		if username == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token carries no username"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), devUserKey{}, username)))
	})
}

func devUser(r *http.Request) string {
	username, _ := r.Context().Value(devUserKey{}).(string)
	return username
}

func (s *devState) getCard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	card, ok := s.cards[chi.URLParam(r, "cardID")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "card not found"})
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *devState) listCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	lines := append([]devLine(nil), s.carts[devUser(r)]...)
	s.mu.Unlock()
	if lines == nil {
		lines = []devLine{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (s *devState) addToCart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CardID string `json:"card_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CardID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "card_id is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[body.CardID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "card not found"})
		return
	}
	user := devUser(r)
	for i, line := range s.carts[user] {
		if line.CardID == body.CardID {
			s.carts[user][i].Quantity++
			writeJSON(w, http.StatusOK, s.carts[user][i])
			return
		}
	}
	s.nextLine++
	line := devLine{ID: s.nextLine, CardID: card.ID, CardName: card.Name, Quantity: 1}
	s.carts[user] = append(s.carts[user], line)
	writeJSON(w, http.StatusCreated, line)
}

func (s *devState) removeLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := strconv.ParseInt(chi.URLParam(r, "lineID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad line id"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user := devUser(r)
	for i, line := range s.carts[user] {
		if line.ID == lineID {
			s.carts[user] = append(s.carts[user][:i], s.carts[user][i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "line not found"})
}

func (s *devState) checkout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Cart []struct {
			ID       string          `json:"id"`
			Name     string          `json:"name"`
			Quantity int             `json:"quantity"`
			Price    decimal.Decimal `json:"price"`
			Image    string          `json:"image"`
		} `json:"cart"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad checkout payload"})
		return
	}

	s.mu.Lock()
	user := devUser(r)
	if len(s.carts[user]) == 0 {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "remote cart is empty"})
		return
	}
	s.nextOrder++
	order := history.Order{ID: s.nextOrder, CreatedAt: time.Now().UTC()}
	for _, item := range body.Cart {
		order.Items = append(order.Items, history.OrderItem{
			ProductID:    item.ID,
			ProductName:  item.Name,
			ProductImage: item.Image,
			Quantity:     item.Quantity,
			Price:        item.Price,
		})
		order.Total = order.Total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	s.carts[user] = nil
	s.mu.Unlock()

	// The real backend records the order when the payment provider's
	// webhook lands. Simulate that lag so the return-leg poller has
	// something to wait for.
	go func() {
		time.Sleep(devWebhookDelay)
		s.mu.Lock()
		s.orders[user] = append([]history.Order{order}, s.orders[user]...)
		s.mu.Unlock()
	}()

	sessionID := uuid.NewString()
	writeJSON(w, http.StatusOK, map[string]string{
		"url": fmt.Sprintf("http://%s/pay/%s", r.Host, sessionID),
	})
}

func (s *devState) listHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	orders := append([]history.Order(nil), s.orders[devUser(r)]...)
	s.mu.Unlock()
	if orders == nil {
		orders = []history.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	devserverCmd.Flags().IntVarP(&devPort, "port", "p", 8000, "Port to listen on")
	devserverCmd.Flags().DurationVar(&devWebhookDelay, "webhook-delay", 3*time.Second, "Delay before a paid order appears in the history")
	rootCmd.AddCommand(devserverCmd)
}
