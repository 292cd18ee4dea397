package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/logging"
	"github.com/mmcdole/marquee/internal/metrics"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tmdb"
	"github.com/mmcdole/marquee/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

type options struct {
	configPath string
	page       int
	movieID    int
	clearCache bool
}

func main() {
	var opts options
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configPath, "config", "", "path to config file")
	flag.IntVar(&opts.page, "page", 0, "print page `N` of popular movies and exit")
	flag.IntVar(&opts.movieID, "movie", 0, "print details for movie `ID` and exit")
	flag.BoolVar(&opts.clearCache, "clear-cache", false, "remove the local cache and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := logging.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	if opts.clearCache {
		if err := config.ClearCache(cfg.CachePath()); err != nil {
			return err
		}
		fmt.Printf("Cleared %s\n", cfg.CachePath())
		return nil
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	if !cfg.IsConfigured() {
		if !interactive || !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("no TMDB API key configured; set tmdb.api_key or MARQUEE_TMDB_API_KEY")
		}
		return runSetupFlow(cfg, opts.configPath, logger)
	}

	remote := newRemote(cfg, logger)

	st, err := store.Open(cfg.Cache.Backend, cfg.CachePath(), cfg.TMDB.BaseURL)
	if err != nil {
		// The app still works online without a cache
		logger.Warn("cache unavailable, using memory store", "error", err)
		st = store.NewMemoryStore()
	}
	defer st.Close()

	repo := catalog.NewRepository(remote, st, logger)

	if cfg.Metrics.Addr != "" {
		srv := startMetricsServer(cfg.Metrics.Addr, logger)
		defer shutdownMetricsServer(srv, logger)
	}

	switch {
	case opts.movieID != 0:
		return printMovie(os.Stdout, repo, opts.movieID, cfg.UI.RequestTimeout)
	case opts.page != 0:
		return printPage(os.Stdout, repo, opts.page, cfg.UI.RequestTimeout)
	case !interactive:
		return printPage(os.Stdout, repo, 1, cfg.UI.RequestTimeout)
	}

	model := tui.NewModel(repo, catalog.NewPager(repo, logger), tui.Options{
		RequestTimeout: cfg.UI.RequestTimeout,
		Accent:         cfg.UI.Accent,
	}, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// newRemote builds the rate limited client behind a circuit breaker
func newRemote(cfg *config.Config, logger *slog.Logger) domain.RemoteSource {
	client := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithRateLimit(cfg.TMDB.RateLimit, cfg.TMDB.Burst),
	)
	return tmdb.NewBreaker(client, tmdb.BreakerSettings{
		ConsecutiveFailures: cfg.TMDB.BreakerFailures,
		OpenTimeout:         cfg.TMDB.BreakerTimeout,
	}, logger)
}

func startMetricsServer(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}

func shutdownMetricsServer(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", "error", err)
	}
}

// runSetupFlow asks for an API key, checks it against the API and saves it
func runSetupFlow(cfg *config.Config, path string, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()
	fmt.Println("Marquee needs a TMDB API key (https://www.themoviedb.org/settings/api).")

	for {
		fmt.Print("API key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		apiKey := string(raw)
		if apiKey == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		cfg.TMDB.APIKey = apiKey
		if err := verifyWithSpinner(tmdb.NewClient(cfg.TMDB.BaseURL, apiKey, logger, tmdb.WithTimeout(cfg.TMDB.Timeout))); err != nil {
			fmt.Printf("\n✗ %s\n", domain.Describe(err))
			fmt.Println("Please check the key and try again.")
			fmt.Println()
			continue
		}
		break
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run marquee again to start the application.")

	return nil
}

// verifyWithSpinner fetches the first popular page with a visual spinner
func verifyWithSpinner(remote domain.RemoteSource) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := remote.FetchPopular(ctx, 1)
		resultCh <- err
	}()

	frames := spinner.Dot.Frames
	frame := 0
	fmt.Printf("\r%s Checking API key...", frames[frame])

	ticker := time.NewTicker(spinner.Dot.FPS)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ API key accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking API key...", frames[frame%len(frames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return &domain.TransportError{Err: ctx.Err()}
		}
	}
}

// requestContext applies the UI request timeout to one-shot commands
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
