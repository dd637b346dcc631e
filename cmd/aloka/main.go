// ABOUTME: Entry point for the aloka client
// ABOUTME: Loads configuration, opens the session store and dispatches commands

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/aloka/nexus/internal/app"
	"github.com/aloka/nexus/internal/config"
)

// Version is set at build time.
var version = "dev"

const banner = `
       _       _
  __ _| | ___ | | ____ _
 / _' | |/ _ \| |/ / _' |
| (_| | | (_) |   < (_| |
 \__,_|_|\___/|_|\_\__,_|   nexus
`

// getConfigPath returns the path to the client config file.
// Priority: ALOKA_CONFIG env var > XDG_CONFIG_HOME/aloka/config.yaml > ~/.config/aloka/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("ALOKA_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "aloka", "config.yaml")
}

// getDataPath returns the path to the aloka data directory.
// Priority: XDG_DATA_HOME/aloka > ~/.local/share/aloka
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "aloka")
}

// command runs against an open client
type command func(ctx context.Context, a *app.App, args []string) error

var commands = map[string]command{
	"status":    cmdStatus,
	"subscribe": cmdSubscribe,
	"login":     cmdLogin,
	"logout":    cmdLogout,
	"register":  cmdRegister,
	"reset":     cmdReset,
	"profile":   cmdProfile,
	"analyze":   cmdAnalyze,
	"seed":      cmdSeed,
	"history":   cmdHistory,
	"clear":     cmdClear,
	"verify":    cmdVerify,
	"sync":      cmdSync,
	"platforms": cmdPlatforms,
	"navigate":  cmdNavigate,
	"notify":    cmdNotify,
	"wallpaper": cmdWallpaper,
	"chat":      cmdChat,
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage()
		return
	}
	if name == "version" {
		fmt.Println(version)
		return
	}

	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", name)
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, run, os.Args[2:]); err != nil {
		printNotice(app.NoticeFor(err))
		cancel()
		os.Exit(1)
	}
}

func execute(ctx context.Context, run command, args []string) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	logger.Debug("starting aloka", "version", version, "config", configPath)

	dataPath := getDataPath()
	if cfg.Storage.Path == "" {
		if err := os.MkdirAll(dataPath, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	a, err := app.Open(ctx, cfg, dataPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("closing client", "error", err)
		}
	}()

	return run(ctx, a, args)
}

// loadConfig reads the config file if there is one and applies the
// environment overrides
func loadConfig() (*config.Config, string, error) {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, configPath = config.Default(), "(defaults)"
	} else if err != nil {
		return nil, configPath, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, configPath, err
	}
	return cfg, configPath, nil
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: aloka <command> [args]")
	fmt.Println()
	yellow.Println("Onboarding:")
	fmt.Println("  status                               Show the session and the current screen")
	fmt.Println("  wallpaper accept [ref]               Choose the first-launch wallpaper")
	fmt.Println("  subscribe                            Acknowledge the subscription notice")
	fmt.Println()
	yellow.Println("Account:")
	fmt.Println("  login <id> <password>                Open a session")
	fmt.Println("  logout                               Close the session")
	fmt.Println("  register <id> <password> <code>      Create an account with an activation code")
	fmt.Println("  reset <id> <new> <confirm> <code>    Reset a password with the security code")
	fmt.Println("  profile <id> <new> <confirm> <code>  Change the logged-in account")
	fmt.Println()
	yellow.Println("Predictions:")
	fmt.Println("  analyze --mode <mode> <image>        Analyze a screenshot (BONNE, MAUVAISE, ROSE)")
	fmt.Println("  analyze --mode <mode> --time <t> --multiplier <m> [--round <id>]")
	fmt.Println("  seed [--source <site>] <image>       Run the seed formula on a capture")
	fmt.Println("  seed --m1 <x> --m2 <y> [--time <t>] [--source <site>]")
	fmt.Println("  history                              List predictions, most recent first")
	fmt.Println("  clear                                Clear the prediction history")
	fmt.Println("  verify <prediction-id>               Run the audit check of a prediction")
	fmt.Println()
	yellow.Println("Platforms:")
	fmt.Println("  platforms                            List platforms and engines")
	fmt.Println("  sync <platform> <studio|spribe>      Sync a platform and engine")
	fmt.Println()
	yellow.Println("Settings:")
	fmt.Println("  navigate <view|back>                 Switch the current view")
	fmt.Println("  notify <eliteSignals|crashAlerts> <on|off>")
	fmt.Println("  wallpaper set <ref> | reset | light <on|off>")
	fmt.Println()
	yellow.Println("Assistant:")
	fmt.Println("  chat [message]                       Talk to the assistant (REPL if no message)")
	fmt.Println("  chat history | clear | translate <message-id>")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  ALOKA_CONFIG        Config file (default: ~/.config/aloka/config.yaml)")
	fmt.Println("  ALOKA_API_KEY       Gemini API key (GEMINI_API_KEY also accepted)")
	fmt.Println("  ALOKA_STORAGE_PATH  Session database path")
	fmt.Println("  ALOKA_CATALOG       Platform catalog TOML file")
	fmt.Println("  ALOKA_LOG_LEVEL     debug, info, warn, error")
	fmt.Println()
}
