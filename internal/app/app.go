// ABOUTME: App composes the session container with every engine component
// ABOUTME: Handles startup wiring, navigation, onboarding, settings and shutdown

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aloka/nexus/internal/analysis"
	"github.com/aloka/nexus/internal/audit"
	"github.com/aloka/nexus/internal/auth"
	"github.com/aloka/nexus/internal/clock"
	"github.com/aloka/nexus/internal/config"
	"github.com/aloka/nexus/internal/conversation"
	"github.com/aloka/nexus/internal/platform"
	"github.com/aloka/nexus/internal/predict"
	"github.com/aloka/nexus/internal/session"
	"github.com/aloka/nexus/internal/store"
)

var (
	// ErrStaleResult is returned when an analysis finishes after the user
	// left the view that started it. The prediction is not recorded.
	ErrStaleResult = errors.New("result discarded: originating view is no longer active")

	// ErrPredictionNotFound is returned for a prediction id not in the history
	ErrPredictionNotFound = errors.New("prediction not found")

	// ErrAnalysisDisabled is returned when no analysis service is configured
	ErrAnalysisDisabled = errors.New("analysis service not configured")

	// ErrChatDisabled is returned when no chat assistant is configured
	ErrChatDisabled = errors.New("chat assistant not configured")
)

// Deps are the collaborators New wires together. Backend is required;
// everything else has a default or disables the feature when nil.
type Deps struct {
	Backend   store.Backend
	Analyzer  analysis.Analyzer      // nil: analysis disabled
	Assistant conversation.Assistant // nil: chat disabled
	Catalog   *platform.Catalog      // nil: platform.DefaultCatalog
	Clock     clock.Clock            // nil: clock.Real
	Rand      predict.Rand           // nil: predict.DefaultRand
}

// App is the aloka client
type App struct {
	cfg       *config.Config
	backend   store.Backend
	docs      *session.Container
	registry  *auth.Registry
	generator *predict.Generator
	verifier  *audit.Verifier
	handshake *platform.Handshake
	catalog   *platform.Catalog
	analyzer  analysis.Analyzer
	chat      *conversation.Service
	chatFeed  *conversation.Broadcaster
	logger    *slog.Logger

	mu   sync.Mutex
	view ViewState
}

// New loads the session document from deps.Backend and wires the engine
// around it. A missing or malformed stored document starts a fresh install.
func New(ctx context.Context, cfg *config.Config, deps Deps, logger *slog.Logger) (*App, error) {
	if deps.Backend == nil {
		return nil, errors.New("app: storage backend is required")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Catalog == nil {
		deps.Catalog = platform.DefaultCatalog()
	}

	persister := session.NewPersister(deps.Backend, cfg.Storage.Key, logger)
	doc, restored := persister.Load(ctx, session.Default())
	docs := session.NewContainer(doc, persister, logger)

	a := &App{
		cfg:       cfg,
		backend:   deps.Backend,
		docs:      docs,
		registry:  auth.NewRegistry(docs, logger),
		generator: predict.NewGenerator(deps.Rand, deps.Clock, audit.Hash),
		verifier:  audit.NewVerifier(deps.Clock, cfg.Timing.AuditDelay, logger),
		handshake: platform.NewHandshake(deps.Catalog, docs, deps.Clock, cfg.Timing.SyncDelay, logger),
		catalog:   deps.Catalog,
		analyzer:  deps.Analyzer,
		logger:    logger.With("component", "app"),
	}

	if deps.Assistant != nil {
		a.chatFeed = conversation.NewBroadcaster(logger)
		a.chat = conversation.New(deps.Assistant, deps.Backend, a.chatFeed, deps.Clock, logger)
		if err := a.chat.Load(ctx); err != nil {
			a.logger.Warn("chat transcript not restored", "error", err)
		}
	}

	a.logger.Info("session ready",
		"restored", restored,
		"screen", ScreenFor(doc),
		"analysis", a.analyzer != nil,
		"chat", a.chat != nil)
	return a, nil
}

// Open builds an App from configuration: SQLite storage under dataDir,
// the configured platform catalog, and Gemini collaborators when an API
// key is set.
func Open(ctx context.Context, cfg *config.Config, dataDir string, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := initStore(cfg, dataDir)
	if err != nil {
		return nil, err
	}

	deps := Deps{Backend: backend}
	if cfg.Catalog.Path != "" {
		deps.Catalog, err = platform.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
	}

	if cfg.Analysis.APIKey != "" {
		client, err := analysis.NewGeminiClient(ctx, cfg.Analysis.APIKey)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		deps.Analyzer = analysis.NewGeminiAnalyzer(client.Models, cfg.Analysis.Model, logger)
		deps.Assistant = conversation.NewGeminiAssistant(client.Models, cfg.Analysis.Model, logger)
	} else {
		logger.Debug("no analysis API key configured, analysis and chat disabled")
	}

	a, err := New(ctx, cfg, deps, logger)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return a, nil
}

// initStore opens the SQLite document store at the configured path
func initStore(cfg *config.Config, dataDir string) (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(cfg.DatabasePath(dataDir), cfg.Storage.QuotaBytes)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// Close releases the chat feed and the storage backend
func (a *App) Close() error {
	if a.chatFeed != nil {
		a.chatFeed.Close()
	}
	if err := a.backend.Close(); err != nil {
		return fmt.Errorf("store close: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the session document
func (a *App) Snapshot() session.Document {
	return a.docs.Snapshot()
}

// Screen returns the screen the current document gates to
func (a *App) Screen() Screen {
	return ScreenFor(a.docs.Snapshot())
}

// Auth returns the credential registry
func (a *App) Auth() *auth.Registry {
	return a.registry
}

// Catalog returns the platform catalog
func (a *App) Catalog() *platform.Catalog {
	return a.catalog
}

// Chat returns the chat service, or ErrChatDisabled
func (a *App) Chat() (*conversation.Service, error) {
	if a.chat == nil {
		return nil, ErrChatDisabled
	}
	return a.chat, nil
}

// ChatFeed returns the broadcaster every recorded chat message is published
// to, or ErrChatDisabled
func (a *App) ChatFeed() (*conversation.Broadcaster, error) {
	if a.chatFeed == nil {
		return nil, ErrChatDisabled
	}
	return a.chatFeed, nil
}

// TranslationLanguage is the language chat replies are translated into
func (a *App) TranslationLanguage() string {
	return a.cfg.Analysis.Language
}

// ViewState returns the transient view flags
func (a *App) ViewState() ViewState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// SetMenuOpen shows or hides the mobile menu
func (a *App) SetMenuOpen(open bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view.MenuOpen = open
}

// OpenSync shows the sync modal. The menu closes behind it.
func (a *App) OpenSync() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view.SyncModalOpen = true
	a.view.MenuOpen = false
}

// CloseSync hides the sync modal without syncing
func (a *App) CloseSync() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view.SyncModalOpen = false
}

// Navigate closes the menu and switches to the named view
func (a *App) Navigate(ctx context.Context, name string) error {
	a.SetMenuOpen(false)
	_, err := a.docs.Dispatch(ctx, "navigate", session.Navigate(name))
	return err
}

// Back navigates to the parent of the current view
func (a *App) Back(ctx context.Context) error {
	parent := a.docs.Snapshot().CurrentView.Parent()
	return a.Navigate(ctx, string(parent))
}

// AcceptWallpaper completes the first-launch wallpaper step with ref
func (a *App) AcceptWallpaper(ctx context.Context, ref string) error {
	if ref == "" {
		ref = session.DefaultWallpaper
	}
	_, err := a.docs.Dispatch(ctx, "accept_wallpaper", session.AcceptWallpaper(ref))
	return err
}

// SetWallpaper replaces the wallpaper
func (a *App) SetWallpaper(ctx context.Context, ref string) error {
	_, err := a.docs.Dispatch(ctx, "set_wallpaper", session.SetWallpaper(ref))
	return err
}

// WallpaperFailed restores the default wallpaper after the current one
// failed to load
func (a *App) WallpaperFailed(ctx context.Context) error {
	a.logger.Warn("wallpaper failed to load, restoring default")
	_, err := a.docs.Dispatch(ctx, "reset_wallpaper", session.ResetWallpaper())
	return err
}

// SetLightBg records the wallpaper brightness
func (a *App) SetLightBg(ctx context.Context, on bool) error {
	_, err := a.docs.Dispatch(ctx, "set_light_bg", session.SetLightBg(on))
	return err
}

// AcknowledgeSubscription completes the subscription step
func (a *App) AcknowledgeSubscription(ctx context.Context) error {
	_, err := a.docs.Dispatch(ctx, "subscription_seen", session.MarkSubscriptionSeen())
	return err
}

// SetNotification flips a notification toggle
func (a *App) SetNotification(ctx context.Context, key session.NotificationKey, on bool) error {
	_, err := a.docs.Dispatch(ctx, "set_notification", session.SetNotification(key, on))
	return err
}

// LaunchURL returns the game URL for the synced platform and engine, or ""
func (a *App) LaunchURL() string {
	return a.catalog.LaunchURL(a.docs.Snapshot())
}

// committed reports whether a dispatch result means the transition took
// effect. A storage failure still commits the in-memory change.
func committed(err error) bool {
	return err == nil || errors.Is(err, session.ErrStorage)
}
