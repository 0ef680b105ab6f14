package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pikacards/storefront/auth"
	"github.com/pikacards/storefront/cart"
	"github.com/pikacards/storefront/catalog"
	"github.com/pikacards/storefront/checkout"
	"github.com/pikacards/storefront/history"
	"github.com/pikacards/storefront/profile"
	"github.com/pikacards/storefront/remote"
	bboltstorage "github.com/pikacards/storefront/storage/bbolt"
)

// Version is the CLI version, overridable at build time.
var Version = "dev"

var (
	apiBase string
	dataDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "PikaCards storefront client",
	Long: `Command-line client for the PikaCards trading-card store.
The cart lives locally and keeps working offline; mutations are pushed to
the backend on a best-effort basis while you are signed in.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; flags and real env win over it anyway.
		godotenv.Load()
		if apiBase == "" {
			apiBase = envOr("STOREFRONT_API_URL", "http://127.0.0.1:8000")
		}
		if dataDir == "" {
			dataDir = envOr("STOREFRONT_DATA_DIR", defaultDataDir())
		}
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-url", "", "Backend base URL (default $STOREFRONT_API_URL or http://127.0.0.1:8000)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for persistent data (default $STOREFRONT_DATA_DIR or ~/.pikacards)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pikacards"
	}
	return filepath.Join(home, ".pikacards")
}

func apiURL() string {
	return strings.TrimRight(apiBase, "/") + "/api"
}

func authURL() string {
	return strings.TrimRight(apiBase, "/") + "/auth"
}

// app wires the client services over one bbolt repository.
type app struct {
	repo     *bboltstorage.Store
	sessions *auth.Store
	profiles *profile.Store
	cart     *cart.Store
	remote   *remote.Client
	syncer   *remote.Syncer
	catalog  *catalog.Client
	auth     *auth.Client
	history  *history.Client
	checkout *checkout.Orchestrator
}

func newApp() (*app, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := bboltstorage.NewRepositoryFromFile(filepath.Join(dataDir, "storefront.db"), nil)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	sessions := auth.NewStore(repo)
	profiles := profile.NewStore(repo)
	remoteCart := remote.NewClient(apiURL(), sessions)
	syncer := remote.NewSyncer(remoteCart, sessions)
	cartStore := cart.NewStore(repo, cart.WithListener(syncer))

	return &app{
		repo:     repo,
		sessions: sessions,
		profiles: profiles,
		cart:     cartStore,
		remote:   remoteCart,
		syncer:   syncer,
		catalog:  catalog.NewClient(apiURL()),
		auth:     auth.NewClient(authURL()),
		history:  history.NewClient(apiURL(), sessions),
		checkout: checkout.New(cartStore, sessions, profiles, remoteCart, checkout.WithNavigator(printNavigator{})),
	}, nil
}

// close waits for in-flight cart syncs so fire-and-forget pushes actually
// leave the process, then releases the database.
func (a *app) close() {
	a.syncer.Wait()
	a.repo.Close()
}

// printNavigator hands the payment redirect to the user: a terminal client
// cannot follow the redirect itself.
type printNavigator struct{}

func (printNavigator) Navigate(url string) error {
	fmt.Printf("\nOpen this page to complete your payment:\n\n  %s\n\n", url)
	fmt.Println("When you are done, run: storefront history --success")
	return nil
}
