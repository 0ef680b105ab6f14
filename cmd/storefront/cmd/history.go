package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pikacards/storefront/catalog"
	"github.com/pikacards/storefront/history"
	"github.com/pikacards/storefront/profile"
)

var (
	historySuccess  bool
	historyQuery    string
	historyMinTotal string
	historyMaxTotal string
	historyFrom     string
	historyTo       string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your order history",
	Long: `Show your order history.

With --success (the post-payment return), the local cart is cleared right
away and the history is re-polled for a short window so the order created by
the payment webhook can show up.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if !a.sessions.Valid() {
			fmt.Println("Sign in to see your history: storefront login")
			return nil
		}

		filter, err := parseHistoryFilter()
		if err != nil {
			return err
		}

		if !historySuccess {
			orders, err := a.history.Orders(cmd.Context())
			if err != nil {
				return err
			}
			printOrders(filter.Apply(orders), a.profiles.ImageSizePref())
			return nil
		}

		// Return leg: cancel with Ctrl-C (navigation away), otherwise the
		// poller stops by itself when its window elapses.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println("Payment completed! Your order is being processed.")
		pref := a.profiles.ImageSizePref()
		poller := history.NewPoller(a.history, a.cart, a.sessions)
		poller.Run(ctx, history.Events{
			OrdersRefreshed: func(orders []history.Order) {
				fmt.Printf("\n--- refreshed %s ---\n", time.Now().Format("15:04:05"))
				printOrders(filter.Apply(orders), pref)
			},
			BannerExpired: func() {
				fmt.Println("(still waiting for the order to be confirmed...)")
			},
		})
		return nil
	},
}

func parseHistoryFilter() (history.Filter, error) {
	f := history.Filter{Query: historyQuery}
	if historyMinTotal != "" {
		d, err := decimal.NewFromString(historyMinTotal)
		if err != nil {
			return f, fmt.Errorf("parsing --min-total: %w", err)
		}
		f.MinTotal = &d
	}
	if historyMaxTotal != "" {
		d, err := decimal.NewFromString(historyMaxTotal)
		if err != nil {
			return f, fmt.Errorf("parsing --max-total: %w", err)
		}
		f.MaxTotal = &d
	}
	if historyFrom != "" {
		ts, err := time.Parse("2006-01-02", historyFrom)
		if err != nil {
			return f, fmt.Errorf("parsing --from: %w", err)
		}
		f.Start = &ts
	}
	if historyTo != "" {
		ts, err := time.Parse("2006-01-02", historyTo)
		if err != nil {
			return f, fmt.Errorf("parsing --to: %w", err)
		}
		f.End = &ts
	}
	return f, nil
}

func printOrders(orders []history.Order, imageSize string) {
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return
	}
	for _, order := range orders {
		date := "date unavailable"
		if !order.CreatedAt.IsZero() {
			date = order.CreatedAt.Local().Format("2 Jan 2006 15:04")
		}
		fmt.Printf("Order #%d — %s\n", order.ID, date)
		for _, item := range order.Items {
			fmt.Printf("  %-28s ×%-3d %10s\n", item.ProductName, item.Quantity,
				catalog.FormatCurrency(item.Price))
			if img := itemImage(item, imageSize); img != "" {
				fmt.Printf("    %s\n", img)
			}
		}
		fmt.Printf("  Total %s\n\n", catalog.FormatCurrency(order.Total))
	}
}

// itemImage renders the image URL according to the display-size preference:
// small hides it, medium truncates, large prints it whole.
func itemImage(item history.OrderItem, pref string) string {
	img := item.ProductImage
	if img == "" {
		img = catalog.FallbackCardImage
	}
	switch pref {
	case "small":
		return ""
	case "large":
		return img
	default:
		max := profile.ImageSizePixels(pref) / 2
		if len(img) > max {
			return img[:max] + "…"
		}
		return img
	}
}

func init() {
	historyCmd.Flags().BoolVar(&historySuccess, "success", false, "Treat this as the post-payment return: clear the cart and poll for the new order")
	historyCmd.Flags().StringVar(&historyQuery, "query", "", "Only show orders containing a card whose name matches")
	historyCmd.Flags().StringVar(&historyMinTotal, "min-total", "", "Only show orders with at least this total")
	historyCmd.Flags().StringVar(&historyMaxTotal, "max-total", "", "Only show orders with at most this total")
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "Only show orders on or after this date (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "Only show orders on or before this date (YYYY-MM-DD)")
	rootCmd.AddCommand(historyCmd)
}
