// Package checkout gates and initiates the payment session.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pikacards/storefront/auth"
	"github.com/pikacards/storefront/cart"
	"github.com/pikacards/storefront/profile"
	"github.com/pikacards/storefront/remote"
)

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
// This is a terminal state: there is nothing to redirect the user to.
var ErrEmptyCart = errors.New("cart is empty")

// Redirect targets for recoverable precondition failures.
const (
	TargetLogin   = "login"
	TargetProfile = "profile"
)

// RedirectError is a precondition failure the user can fix at the indicated
// target. Delay is how long the UI should display the reason before
// navigating; the orchestrator itself never sleeps.
type RedirectError struct {
	Target string
	Reason string
	Delay  time.Duration
}

func (e *RedirectError) Error() string {
	return e.Reason
}

// Navigator hands control to the external payment page.
type Navigator interface {
	Navigate(url string) error
}

// Orchestrator validates checkout preconditions, reconciles the remote cart,
// and requests a payment session.
type Orchestrator struct {
	cart     *cart.Store
	sessions *auth.Store
	profiles *profile.Store
	remote   *remote.Client
	nav      Navigator
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNavigator sets the handler for the payment redirect. Without one the
// orchestrator only returns the payment URL.
func WithNavigator(nav Navigator) Option {
	return func(o *Orchestrator) {
		o.nav = nav
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates a checkout orchestrator.
func New(cartStore *cart.Store, sessions *auth.Store, profiles *profile.Store, remoteCart *remote.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cart:     cartStore,
		sessions: sessions,
		profiles: profiles,
		remote:   remoteCart,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Checkout runs the precondition gate, reconciles the remote cart, requests
// a payment session, and navigates to the returned URL. Preconditions are
// checked in order and the first failure aborts before any network traffic
// beyond what the check itself needed. The local cart is never modified.
func (o *Orchestrator) Checkout(ctx context.Context) (string, error) {
	session := o.sessions.Load()
	if session == nil {
		return "", &RedirectError{
			Target: TargetLogin,
			Reason: "sign in to continue with payment",
			Delay:  2 * time.Second,
		}
	}

	items := o.cart.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	if p := o.profiles.Load(session.User.Username); !p.Complete() {
		return "", &RedirectError{
			Target: TargetProfile,
			Reason: "add your shipping province and address before paying",
		}
	}

	if err := o.reconcileRemote(ctx, items); err != nil {
		return "", err
	}

	url, err := o.remote.CreateSession(ctx, checkoutItems(items))
	if err != nil {
		return "", err
	}
	o.logger.Info("payment session created", "url", url)

	if o.nav != nil {
		if err := o.nav.Navigate(url); err != nil {
			return url, fmt.Errorf("opening payment page: %w", err)
		}
	}
	return url, nil
}

// reconcileRemote bootstraps the remote cart from local state when the
// remote side is completely empty. The checkout backend consults only the
// remote cart, so an empty one would produce an empty order. Partial
// mismatches are left alone; the push is one add call per unit of quantity.
func (o *Orchestrator) reconcileRemote(ctx context.Context, items []cart.Item) error {
	lines, err := o.remote.Lines(ctx)
	if err != nil {
		return fmt.Errorf("checking remote cart: %w", err)
	}
	if len(lines) > 0 {
		return nil
	}

	o.logger.Info("remote cart empty, pushing local cart", "lines", len(items))
	for _, item := range items {
		for i := 0; i < item.Qty; i++ {
			if err := o.remote.Add(ctx, item.ID); err != nil {
				return fmt.Errorf("pushing %s to remote cart: %w", item.ID, err)
			}
		}
	}
	return nil
}

func checkoutItems(items []cart.Item) []remote.CheckoutItem {
	out := make([]remote.CheckoutItem, len(items))
	for i, item := range items {
		out[i] = remote.CheckoutItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Qty,
			Price:    item.Price,
			Image:    item.Image,
		}
	}
	return out
}
