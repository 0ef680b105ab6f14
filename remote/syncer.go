package remote

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pikacards/storefront/cart"
)

// SessionChecker reports whether a usable auth session exists. Sync is only
// attempted while authenticated; an anonymous cart stays local.
type SessionChecker interface {
	Valid() bool
}

// Syncer propagates local cart mutations to the remote cart, fire-and-forget.
// It implements cart.Listener.
//
// Local-wins: remote failures are logged and swallowed, and local state is
// never consulted again once an operation has been dispatched. Each item
// carries a monotonic sequence number; an operation that has been superseded
// by a newer one for the same item stops issuing calls, so out-of-order
// completions cannot push stale quantities.
type Syncer struct {
	client   *Client
	sessions SessionChecker
	logger   *slog.Logger
	timeout  time.Duration

	mu  sync.Mutex
	seq map[string]uint64
	wg  sync.WaitGroup
}

var _ cart.Listener = (*Syncer)(nil)

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithSyncLogger sets the structured logger. Defaults to slog.Default().
func WithSyncLogger(logger *slog.Logger) SyncerOption {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithSyncTimeout bounds each dispatched operation. Default: 30s.
func WithSyncTimeout(d time.Duration) SyncerOption {
	return func(s *Syncer) {
		s.timeout = d
	}
}

// NewSyncer creates a syncer over the given remote client.
func NewSyncer(client *Client, sessions SessionChecker, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		client:   client,
		sessions: sessions,
		logger:   slog.Default(),
		timeout:  30 * time.Second,
		seq:      make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ItemAdded issues one remote add call for the card.
func (s *Syncer) ItemAdded(item cart.Item) {
	s.dispatch(item.ID, "add", func(ctx context.Context, stale func() bool) error {
		if stale() {
			return nil
		}
		return s.client.Add(ctx, item.ID)
	})
}

// ItemRemoved deletes the remote line matching the card by name, if any.
// The name is the only correlation key the remote cart shares with local
// state; no matching line means there is nothing to delete.
func (s *Syncer) ItemRemoved(item cart.Item) {
	s.dispatch(item.ID, "remove", func(ctx context.Context, stale func() bool) error {
		lines, err := s.client.Lines(ctx)
		if err != nil {
			return err
		}
		line, ok := findLine(lines, item.Name)
		if !ok || stale() {
			return nil
		}
		return s.client.RemoveLine(ctx, line.ID)
	})
}

// QuantityChanged reconciles the remote line with the new local quantity.
// The remote protocol only has add and remove-by-line primitives, so an
// increase becomes N unit adds and a decrease tears the line down and
// rebuilds it at the desired count.
func (s *Syncer) QuantityChanged(item cart.Item, previousQty int) {
	newQty := item.Qty
	s.dispatch(item.ID, "set-quantity", func(ctx context.Context, stale func() bool) error {
		if newQty > previousQty {
			for i := 0; i < newQty-previousQty; i++ {
				if stale() {
					return nil
				}
				if err := s.client.Add(ctx, item.ID); err != nil {
					return err
				}
			}
			return nil
		}

		lines, err := s.client.Lines(ctx)
		if err != nil {
			return err
		}
		if line, ok := findLine(lines, item.Name); ok {
			if stale() {
				return nil
			}
			if err := s.client.RemoveLine(ctx, line.ID); err != nil {
				return err
			}
		}
		for i := 0; i < newQty; i++ {
			if stale() {
				return nil
			}
			if err := s.client.Add(ctx, item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Wait blocks until all dispatched operations have finished. The CLI calls
// this before exiting so fire-and-forget syncs actually leave the process.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

func (s *Syncer) dispatch(itemID, op string, run func(ctx context.Context, stale func() bool) error) {
	if !s.sessions.Valid() {
		return
	}

	s.mu.Lock()
	s.seq[itemID]++
	n := s.seq[itemID]
	s.mu.Unlock()

	stale := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.seq[itemID] != n
	}

	opID := uuid.NewString()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := run(ctx, stale); err != nil {
			// Best effort only. The local cart is already committed and is
			// never rolled back on sync failure.
			s.logger.Warn("cart sync failed", "op", op, "op_id", opID, "card_id", itemID, "error", err)
			return
		}
		s.logger.Debug("cart sync done", "op", op, "op_id", opID, "card_id", itemID)
	}()
}

// findLine returns the first remote line whose card name matches, ignoring
// case.
func findLine(lines []Line, name string) (Line, bool) {
	for _, line := range lines {
		if strings.EqualFold(line.CardName, name) {
			return line, true
		}
	}
	return Line{}, false
}
