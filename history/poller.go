package history

import (
	"context"
	"log/slog"
	"time"
)

// Default reconciliation timings. The payment webhook lands at the backend's
// leisure, so the poller watches for a bounded window instead of waiting
// indefinitely; the success banner times out on its own shorter clock.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollWindow   = 20 * time.Second
	DefaultBannerTTL    = 6 * time.Second
)

// CartClearer empties the local cart. Implemented by cart.Store.
type CartClearer interface {
	Clear()
}

// SessionChecker reports whether a usable auth session exists.
type SessionChecker interface {
	Valid() bool
}

// Events receives poller callbacks. Either callback may be nil.
type Events struct {
	// OrdersRefreshed replaces the displayed history with a fresh response.
	OrdersRefreshed func(orders []Order)
	// BannerExpired removes the transient success banner. Fires at most once
	// and does not affect polling.
	BannerExpired func()
}

// Poller handles the return leg after an external payment redirect: it
// clears the local cart immediately and polls the order history for a
// bounded window so the webhook-created order can surface.
type Poller struct {
	client   *Client
	cart     CartClearer
	sessions SessionChecker
	logger   *slog.Logger

	interval  time.Duration
	window    time.Duration
	bannerTTL time.Duration
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithTimings overrides the poll interval, total window, and banner TTL.
func WithTimings(interval, window, bannerTTL time.Duration) PollerOption {
	return func(p *Poller) {
		p.interval = interval
		p.window = window
		p.bannerTTL = bannerTTL
	}
}

// WithPollerLogger sets the structured logger. Defaults to slog.Default().
func WithPollerLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = logger
	}
}

// NewPoller creates a reconciliation poller.
func NewPoller(client *Client, cart CartClearer, sessions SessionChecker, opts ...PollerOption) *Poller {
	p := &Poller{
		client:    client,
		cart:      cart,
		sessions:  sessions,
		logger:    slog.Default(),
		interval:  DefaultPollInterval,
		window:    DefaultPollWindow,
		bannerTTL: DefaultBannerTTL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the return-leg state machine and blocks until the window
// elapses or ctx is cancelled (navigation away releases every timer; no
// callback fires afterwards). Without a valid session it does nothing.
//
// The cart is cleared optimistically before the first poll: the backend
// finalizes the order through its own webhook, so the purchase already
// happened from the client's point of view. Poll failures are transient by
// definition here and never stop the loop before its deadline.
func (p *Poller) Run(ctx context.Context, events Events) {
	if !p.sessions.Valid() {
		return
	}

	p.cart.Clear()
	p.logger.Info("payment return detected, local cart cleared",
		"window", p.window, "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	deadline := time.NewTimer(p.window)
	defer deadline.Stop()
	banner := time.NewTimer(p.bannerTTL)
	defer banner.Stop()
	bannerC := banner.C

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			p.logger.Debug("history poll window elapsed")
			return
		case <-bannerC:
			bannerC = nil
			if events.BannerExpired != nil {
				events.BannerExpired()
			}
		case <-ticker.C:
			orders, err := p.client.Orders(ctx)
			if err != nil {
				p.logger.Debug("history poll failed", "error", err)
				continue
			}
			if events.OrdersRefreshed != nil {
				events.OrdersRefreshed(orders)
			}
		}
	}
}
