package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"likeshelf/internal/config"
	"likeshelf/internal/export"
	"likeshelf/internal/likes"
	"likeshelf/internal/log"
	"likeshelf/internal/source/youtube"
	"likeshelf/internal/store"
	"likeshelf/internal/thumbs"
	"likeshelf/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, signOut, wipe bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&signOut, "signout", false, "remove the stored Google token and exit")
	flag.BoolVar(&wipe, "wipe", false, "delete every cached record and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("likeshelf %s\n", Version)
		return
	}

	if err := run(signOut, wipe); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(signOut, wipe bool) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting likeshelf", "version", Version)

	if wipe {
		return runWipe(cfg)
	}

	// Check if configured
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	auth := youtube.NewAuthenticator(youtube.Credentials{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
	}, cfg.Google.TokenFile, logger)

	if signOut {
		if err := auth.SignOut(); err != nil {
			return fmt.Errorf("sign-out failed: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	}

	ctx := context.Background()

	// Run the consent flow once, the first time
	if !auth.SignedIn() {
		if err := runSignInFlow(ctx, auth); err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}
	}

	httpClient, err := auth.HTTPClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create authorized client: %w", err)
	}

	// Open the local store
	st, err := store.NewVideoStore(cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	// Create the source client and supporting services
	client := youtube.NewClient(logger, youtube.WithHTTPClient(httpClient))
	cache := thumbs.NewCache(cfg.Cache.ThumbDir, nil, logger)
	saver := export.DirSaver{Dir: cfg.Export.Dir}
	svc := likes.NewService(st, client, cache, saver, logger)

	// Best effort; the header just stays bare when this fails.
	account, err := fetchProfile(ctx, client)
	if err != nil {
		logger.Warn("profile lookup failed", "error", err)
	}

	// Run the TUI
	p := tea.NewProgram(
		tui.NewModel(svc, account, logger),
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func fetchProfile(ctx context.Context, client *youtube.Client) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return client.Profile(ctx)
}

// runWipe deletes every cached record after an explicit confirmation.
func runWipe(cfg *config.Config) error {
	fmt.Printf("This deletes every cached record under %s.\n", cfg.Cache.Dir)
	fmt.Print("Type \"yes\" to continue: ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if strings.TrimSpace(input) != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	st, err := store.NewVideoStore(cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	if err := st.Wipe(); err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}
	fmt.Println("Store wiped.")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to likeshelf!")
	fmt.Println()
	fmt.Println("You need a Google OAuth client (Desktop type) with the")
	fmt.Println("YouTube Data API enabled. Create one in the Google Cloud")
	fmt.Println("console, then enter its credentials below.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var clientID string
	for {
		fmt.Print("Client ID: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		clientID = strings.TrimSpace(input)
		if clientID != "" {
			break
		}
		fmt.Println("Client ID cannot be empty. Please try again.")
	}

	var clientSecret string
	for {
		fmt.Print("Client secret: ")
		if term.IsTerminal(int(syscall.Stdin)) {
			secretBytes, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read secret: %w", err)
			}
			clientSecret = strings.TrimSpace(string(secretBytes))
		} else {
			input, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			clientSecret = strings.TrimSpace(input)
		}
		if clientSecret != "" {
			break
		}
		fmt.Println("Client secret cannot be empty. Please try again.")
	}

	cfg.Google.ClientID = clientID
	cfg.Google.ClientSecret = clientSecret

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run likeshelf again to sign in and start the application.")

	return nil
}

// runSignInFlow walks the user through the one-time Google consent screen.
func runSignInFlow(ctx context.Context, auth *youtube.Authenticator) error {
	fmt.Println()
	fmt.Println("Signing in to YouTube. A browser window will open; approve")
	fmt.Println("access, then return here.")
	fmt.Println()

	err := auth.Authorize(ctx, func(consentURL string) error {
		fmt.Printf("If the browser does not open, visit:\n\n  %s\n\n", consentURL)
		return openBrowser(consentURL)
	})
	if err != nil {
		return err
	}

	fmt.Println("✓ Signed in!")
	fmt.Println()
	return nil
}

// openBrowser opens the URL using the system default handler
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		// Linux and other Unix-like systems
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}
