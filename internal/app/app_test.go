// ABOUTME: Tests for the composed client: onboarding gates, navigation, flows and notices
// ABOUTME: Runs against the in-memory store with a fake clock and scripted collaborators

package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

var epoch = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

// lowRand always draws the bottom of every range
type lowRand struct{}

func (lowRand) Float64() float64 { return 0 }
func (lowRand) IntN(int) int     { return 0 }

// scriptedAnalyzer returns canned readings. during runs inside the call,
// before the reading is returned.
type scriptedAnalyzer struct {
	screenshot string
	seed       string
	err        error
	during     func()
	calls      int
}

func (s *scriptedAnalyzer) AnalyzeScreenshot(ctx context.Context, image []byte) (string, error) {
	s.calls++
	if s.during != nil {
		s.during()
	}
	return s.screenshot, s.err
}

func (s *scriptedAnalyzer) AnalyzeSeed(ctx context.Context, image []byte) (string, error) {
	s.calls++
	if s.during != nil {
		s.during()
	}
	return s.seed, s.err
}

type echoAssistant struct{}

func (echoAssistant) Reply(ctx context.Context, message string, history []conversation.Message) (string, error) {
	return "echo: " + message, nil
}

func (echoAssistant) Translate(ctx context.Context, text, language string) (string, error) {
	return language + ": " + text, nil
}

type testEnv struct {
	app     *App
	backend *store.MockStore
	clock   *clock.Fake
}

func newTestApp(t *testing.T, deps Deps) testEnv {
	t.Helper()
	env := testEnv{backend: store.NewMockStore(0), clock: clock.NewFake(epoch)}
	if deps.Backend == nil {
		deps.Backend = env.backend
	}
	deps.Clock = env.clock
	if deps.Rand == nil {
		deps.Rand = lowRand{}
	}

	a, err := New(context.Background(), config.Default(), deps, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	env.app = a
	return env
}

// ready walks a fresh install through onboarding and logs in the seed account
func ready(t *testing.T, a *App) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.AcceptWallpaper(ctx, ""))
	require.NoError(t, a.AcknowledgeSubscription(ctx))
	require.NoError(t, a.Auth().Login(ctx, "admin", session.SeedAccountPassword))
	require.Equal(t, ScreenMain, a.Screen())
}

func TestScreenFor(t *testing.T) {
	base := session.Default()
	user := session.SeedAccountID

	onboarded := base.Clone()
	onboarded.HasAcceptedWallpaper = true
	onboarded.HasSeenSubscription = true

	loggedIn := onboarded.Clone()
	loggedIn.IsAuthenticated = true
	loggedIn.CurrentUser = &user

	editorFresh := base.Clone()
	editorFresh.CurrentView = session.ViewWallpaper

	editorLoggedIn := loggedIn.Clone()
	editorLoggedIn.CurrentView = session.ViewWallpaper

	subscription := base.Clone()
	subscription.HasAcceptedWallpaper = true

	tests := []struct {
		name string
		doc  session.Document
		want Screen
	}{
		{"fresh install", base, ScreenFirstWallpaper},
		{"wallpaper accepted", subscription, ScreenSubscription},
		{"onboarded", onboarded, ScreenAuth},
		{"logged in", loggedIn, ScreenMain},
		{"wallpaper view logged out", editorFresh, ScreenWallpaperEditor},
		{"wallpaper view logged in", editorLoggedIn, ScreenMain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScreenFor(tt.doc))
		})
	}
}

func TestNew_RequiresBackend(t *testing.T) {
	_, err := New(context.Background(), nil, Deps{}, nil)
	require.Error(t, err)
}

func TestOnboardingFlow(t *testing.T) {
	env := newTestApp(t, Deps{})
	ctx := context.Background()
	a := env.app

	assert.Equal(t, ScreenFirstWallpaper, a.Screen())

	require.NoError(t, a.AcceptWallpaper(ctx, "https://example.com/bg.jpg"))
	assert.Equal(t, ScreenSubscription, a.Screen())
	assert.Equal(t, "https://example.com/bg.jpg", a.Snapshot().Wallpaper())

	require.NoError(t, a.AcknowledgeSubscription(ctx))
	assert.Equal(t, ScreenAuth, a.Screen())

	err := a.Auth().Login(ctx, "ADMIN", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, ScreenAuth, a.Screen())

	require.NoError(t, a.Auth().Login(ctx, " admin ", session.SeedAccountPassword))
	assert.Equal(t, ScreenMain, a.Screen())
	assert.Equal(t, session.SeedAccountID, a.Snapshot().User())
}

func TestWallpaperEditorReachableLoggedOut(t *testing.T) {
	env := newTestApp(t, Deps{})
	ctx := context.Background()

	require.NoError(t, env.app.Navigate(ctx, string(session.ViewWallpaper)))
	assert.Equal(t, ScreenWallpaperEditor, env.app.Screen())

	require.NoError(t, env.app.SetWallpaper(ctx, "https://example.com/clip.mp4"))
	assert.True(t, session.IsVideo(env.app.Snapshot().Wallpaper()))

	require.NoError(t, env.app.Back(ctx))
	assert.Equal(t, session.ViewSettings, env.app.Snapshot().CurrentView)
	assert.Equal(t, ScreenFirstWallpaper, env.app.Screen())
}

func TestNew_RestoresDocument(t *testing.T) {
	backend := store.NewMockStore(0)
	first := newTestApp(t, Deps{Backend: backend})
	ready(t, first.app)
	require.NoError(t, first.app.Navigate(context.Background(), "history"))

	second := newTestApp(t, Deps{Backend: backend})
	doc := second.app.Snapshot()
	assert.Equal(t, ScreenMain, second.app.Screen())
	assert.Equal(t, session.ViewHistory, doc.CurrentView)
	assert.Equal(t, session.SeedAccountID, doc.User())
}

func TestNew_MalformedDocumentStartsFresh(t *testing.T) {
	backend := store.NewMockStore(0)
	backend.Raw(session.StorageKey, []byte("{not json"))

	env := newTestApp(t, Deps{Backend: backend})
	assert.Equal(t, ScreenFirstWallpaper, env.app.Screen())

	_, err := backend.Get(context.Background(), session.StorageKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNavigate_ClosesMenu(t *testing.T) {
	env := newTestApp(t, Deps{})
	ctx := context.Background()
	a := env.app

	a.SetMenuOpen(true)
	require.NoError(t, a.Navigate(ctx, "settings"))
	assert.False(t, a.ViewState().MenuOpen)
	assert.Equal(t, session.ViewSettings, a.Snapshot().CurrentView)

	a.SetMenuOpen(true)
	err := a.Navigate(ctx, "casino")
	assert.ErrorIs(t, err, session.ErrUnknownView)
	assert.False(t, a.ViewState().MenuOpen)
	assert.Equal(t, session.ViewSettings, a.Snapshot().CurrentView)
}

func TestBack(t *testing.T) {
	env := newTestApp(t, Deps{})
	ctx := context.Background()

	require.NoError(t, env.app.Navigate(ctx, "profile"))
	require.NoError(t, env.app.Back(ctx))
	assert.Equal(t, session.ViewSettings, env.app.Snapshot().CurrentView)

	require.NoError(t, env.app.Back(ctx))
	assert.Equal(t, session.ViewHome, env.app.Snapshot().CurrentView)
}

func TestOpenSync_ClosesMenu(t *testing.T) {
	env := newTestApp(t, Deps{})
	env.app.SetMenuOpen(true)
	env.app.OpenSync()

	assert.Equal(t, ViewState{SyncModalOpen: true}, env.app.ViewState())

	env.app.CloseSync()
	assert.Equal(t, ViewState{}, env.app.ViewState())
}

func TestSettings(t *testing.T) {
	env := newTestApp(t, Deps{})
	ctx := context.Background()
	a := env.app

	require.NoError(t, a.SetNotification(ctx, session.NotifyCrashAlerts, false))
	assert.False(t, a.Snapshot().Notifications.CrashAlerts)
	assert.True(t, a.Snapshot().Notifications.EliteSignals)

	err := a.SetNotification(ctx, "sound", true)
	assert.ErrorIs(t, err, session.ErrUnknownNotification)

	require.NoError(t, a.SetLightBg(ctx, true))
	assert.True(t, a.Snapshot().IsLightBg)

	require.NoError(t, a.SetWallpaper(ctx, "https://example.com/broken.png"))
	require.NoError(t, a.WallpaperFailed(ctx))
	assert.Equal(t, session.DefaultWallpaper, a.Snapshot().Wallpaper())
}

func TestAnalyze_RecordsPrediction(t *testing.T) {
	analyzer := &scriptedAnalyzer{screenshot: `{"lastTime":"12:00:00","lastMultiplier":"1.45","lastRoundId":"R-77"}`}
	env := newTestApp(t, Deps{Analyzer: analyzer})
	ready(t, env.app)

	p, err := env.app.Analyze(context.Background(), session.ModeBonne, []byte("png"))
	require.NoError(t, err)

	assert.Equal(t, session.ModeBonne, p.Mode)
	assert.Equal(t, predict.DefaultPlatform, p.Platform)
	assert.Equal(t, "R-77", p.Audit.RoundID)
	assert.Equal(t, "12:02:45", p.Results.Res1.Time)
	assert.Equal(t, "2.00", p.Results.Res1.Multiplier)
	assert.Equal(t, 98, p.Results.Res1.Confidence)
	require.NotNil(t, p.Results.Res2)

	history := env.app.History()
	require.Len(t, history, 1)
	assert.Equal(t, p.ID, history[0].ID)
}

func TestAnalyze_UsesSyncedPlatform(t *testing.T) {
	analyzer := &scriptedAnalyzer{screenshot: `{"lastTime":"12:00:00","lastMultiplier":"1.45"}`}
	env := newTestApp(t, Deps{Analyzer: analyzer})
	ready(t, env.app)
	ctx := context.Background()

	require.NoError(t, env.app.Selector().SelectPlatform("Melbet"))
	require.NoError(t, env.app.Selector().SelectEngine(platform.EngineSpribe))
	pending, err := env.app.Sync(ctx)
	require.NoError(t, err)
	env.clock.Advance(config.DefaultSyncDelay)
	out, err := pending.Wait(ctx)
	require.NoError(t, err)
	require.NoError(t, env.app.CompleteSync(out))

	p, err := env.app.Analyze(ctx, session.ModeRose, nil)
	require.NoError(t, err)
	assert.Equal(t, "Melbet", p.Platform)
	require.NotNil(t, p.Engine)
	assert.Equal(t, session.EngineSpribe, *p.Engine)
	assert.Equal(t, predict.UnknownRound, p.Audit.RoundID)
}

func TestAnalyze_RequiresSession(t *testing.T) {
	analyzer := &scriptedAnalyzer{screenshot: `{"lastTime":"12:00:00","lastMultiplier":"1.45"}`}
	env := newTestApp(t, Deps{Analyzer: analyzer})

	_, err := env.app.Analyze(context.Background(), session.ModeBonne, nil)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	assert.Zero(t, analyzer.calls)
}

func TestAnalyze_Disabled(t *testing.T) {
	env := newTestApp(t, Deps{})
	ready(t, env.app)

	_, err := env.app.Analyze(context.Background(), session.ModeBonne, nil)
	assert.ErrorIs(t, err, ErrAnalysisDisabled)

	_, err = env.app.Seed(context.Background(), predict.SourceBet261, nil)
	assert.ErrorIs(t, err, ErrAnalysisDisabled)
}

func TestAnalyze_UnknownMode(t *testing.T) {
	analyzer := &scriptedAnalyzer{}
	env := newTestApp(t, Deps{Analyzer: analyzer})
	ready(t, env.app)

	_, err := env.app.Analyze(context.Background(), session.ModeDirect, nil)
	assert.ErrorIs(t, err, predict.ErrUnknownMode)
	assert.Zero(t, analyzer.calls)
}

func TestAnalyze_FailuresLeaveHistoryUntouched(t *testing.T) {
	tests := []struct {
		name     string
		analyzer *scriptedAnalyzer
		wantErr  error
	}{
		{"missing multiplier", &scriptedAnalyzer{screenshot: `{"lastTime":"12:00:00"}`}, predict.ErrIncompleteSignal},
		{"not json", &scriptedAnalyzer{screenshot: "I cannot read this image"}, predict.ErrIncompleteSignal},
		{"upstream down", &scriptedAnalyzer{err: fmt.Errorf("%w: deadline exceeded", analysis.ErrUpstreamUnavailable)}, analysis.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestApp(t, Deps{Analyzer: tt.analyzer})
			ready(t, env.app)
			ctx := context.Background()

			_, err := env.app.PredictDirect(ctx, predict.SeedRequest{Multiplier1: "2.00", Multiplier2: "3.00"})
			require.NoError(t, err)

			_, err = env.app.Analyze(ctx, session.ModeMauvaise, nil)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, env.app.History(), 1)
		})
	}
}

func TestAnalyze_LateResultDiscarded(t *testing.T) {
	env := newTestApp(t, Deps{})
	ready(t, env.app)
	ctx := context.Background()
	require.NoError(t, env.app.Navigate(ctx, "screenshot"))

	env.app.analyzer = &scriptedAnalyzer{
		screenshot: `{"lastTime":"12:00:00","lastMultiplier":"1.45"}`,
		during: func() {
			require.NoError(t, env.app.Navigate(ctx, "history"))
		},
	}

	_, err := env.app.Analyze(ctx, session.ModeBonne, nil)
	assert.ErrorIs(t, err, ErrStaleResult)
	assert.Empty(t, env.app.History())
	assert.Equal(t, session.ViewHistory, env.app.Snapshot().CurrentView)
}

func TestSeed_RecordsDirectPrediction(t *testing.T) {
	analyzer := &scriptedAnalyzer{seed: "```json\n{\"multiplier1\":\"5.00\",\"multiplier2\":\"5.00\",\"baseTime\":\"12:00:00\"}\n```"}
	env := newTestApp(t, Deps{Analyzer: analyzer})
	ready(t, env.app)

	p, err := env.app.Seed(context.Background(), predict.Source1xBet, nil)
	require.NoError(t, err)

	assert.Equal(t, session.ModeDirect, p.Mode)
	assert.Equal(t, "1XBET", p.Platform)
	assert.Equal(t, "1.00", p.Results.Res1.Multiplier)
	assert.Equal(t, "12:01:00", p.Results.Res1.Time)
	assert.Equal(t, 99, p.Results.Res1.Confidence)
	assert.Nil(t, p.Results.Res2)
	assert.Len(t, env.app.History(), 1)
}

func TestPredictions_MostRecentFirst(t *testing.T) {
	env := newTestApp(t, Deps{})
	ready(t, env.app)
	ctx := context.Background()

	first, err := env.app.Predict(ctx, predict.ModeRequest{Mode: session.ModeRose, LastTime: "10:00:00", LastMultiplier: "1.10"})
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	second, err := env.app.PredictDirect(ctx, predict.SeedRequest{Multiplier1: "2.25", Multiplier2: "3.75"})
	require.NoError(t, err)

	history := env.app.History()
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
}

func TestClearHistory_Idempotent(t *testing.T) {
	env := newTestApp(t, Deps{})
	ready(t, env.app)
	ctx := context.Background()

	_, err := env.app.Predict(ctx, predict.ModeRequest{Mode: session.ModeBonne, LastTime: "10:00:00", LastMultiplier: "1.10"})
	require.NoError(t, err)

	require.NoError(t, env.app.ClearHistory(ctx))
	assert.Empty(t, env.app.History())
	require.NoError(t, env.app.ClearHistory(ctx))
	assert.Empty(t, env.app.History())
}

func TestVerify(t *testing.T) {
	env := newTestApp(t, Deps{})
	ready(t, env.app)
	ctx := context.Background()

	p, err := env.app.Predict(ctx, predict.ModeRequest{Mode: session.ModeBonne, LastTime: "10:00:00", LastMultiplier: "1.10"})
	require.NoError(t, err)

	_, err = env.app.Verify(ctx, "missing")
	assert.ErrorIs(t, err, ErrPredictionNotFound)

	check, err := env.app.Verify(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, audit.StateChecking, env.app.AuditState(p.ID))

	env.clock.Advance(config.DefaultAuditDelay)
	state, err := check.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, audit.StateVerified, state)
	assert.Equal(t, audit.StateVerified, env.app.AuditState(p.ID))

	env.app.CloseAudit(p.ID)
	assert.Equal(t, audit.StateIdle, env.app.AuditState(p.ID))
}

func TestClearHistory_CancelsAudits(t *testing.T) {
	env := newTestApp(t, Deps{})
	ready(t, env.app)
	ctx := context.Background()

	p, err := env.app.Predict(ctx, predict.ModeRequest{Mode: session.ModeBonne, LastTime: "10:00:00", LastMultiplier: "1.10"})
	require.NoError(t, err)
	check, err := env.app.Verify(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, env.app.ClearHistory(ctx))
	_, err = check.Wait(ctx)
	assert.ErrorIs(t, err, clock.ErrCanceled)
	assert.Zero(t, env.clock.Pending())
}

func TestSync(t *testing.T) {
	env := newTestApp(t, Deps{})
	ready(t, env.app)
	ctx := context.Background()
	a := env.app

	a.OpenSync()
	_, err := a.Sync(ctx)
	assert.ErrorIs(t, err, platform.ErrIncompleteSelection)
	assert.Equal(t, "SÉLECTION INCOMPLÈTE", NoticeFor(err).Text)

	require.NoError(t, a.Selector().SelectPlatform("Bet261"))
	err = a.Selector().SelectEngine(platform.EngineSpribe)
	assert.ErrorIs(t, err, platform.ErrEngineUnavailable)
	assert.NotErrorIs(t, err, platform.ErrIncompleteSelection)

	require.NoError(t, a.Selector().SelectEngine(platform.EngineStudio))
	pending, err := a.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, platform.StateVerifying, a.SyncState())
	assert.True(t, a.ViewState().SyncModalOpen)
	assert.Empty(t, a.LaunchURL())

	env.clock.Advance(config.DefaultSyncDelay)
	out, err := pending.Wait(ctx)
	require.NoError(t, err)
	require.NoError(t, a.CompleteSync(out))

	assert.False(t, a.ViewState().SyncModalOpen)
	assert.Equal(t, platform.StateSynced, a.SyncState())
	assert.Equal(t, "https://bet261.mg/", out.URL)
	assert.Equal(t, "https://bet261.mg/instant-games/llc/Aviator", a.LaunchURL())

	doc := a.Snapshot()
	require.NotNil(t, doc.SyncedPlatform)
	require.NotNil(t, doc.SyncedEngine)
	assert.Equal(t, "Bet261", *doc.SyncedPlatform)
	assert.Equal(t, session.EngineStudio, *doc.SyncedEngine)
	assert.True(t, doc.IsPredictorUnlocked)
}

func TestStorageFailureKeepsSession(t *testing.T) {
	env := newTestApp(t, Deps{})
	ctx := context.Background()
	a := env.app
	require.NoError(t, a.AcceptWallpaper(ctx, ""))
	require.NoError(t, a.AcknowledgeSubscription(ctx))

	env.backend.FailNextPuts(store.ErrQuotaExceeded, store.ErrQuotaExceeded)
	err := a.Auth().Login(ctx, "ADMIN", session.SeedAccountPassword)
	require.ErrorIs(t, err, session.ErrStorage)
	assert.Equal(t, ScreenMain, a.Screen())

	n := NoticeFor(err)
	assert.Equal(t, LevelWarning, n.Level)
	assert.Equal(t, "SAUVEGARDE IMPOSSIBLE", n.Text)
}

func TestChat(t *testing.T) {
	env := newTestApp(t, Deps{})
	_, err := env.app.Chat()
	assert.ErrorIs(t, err, ErrChatDisabled)
	_, err = env.app.ChatFeed()
	assert.ErrorIs(t, err, ErrChatDisabled)

	env = newTestApp(t, Deps{Assistant: echoAssistant{}})
	chat, err := env.app.Chat()
	require.NoError(t, err)
	feed, err := env.app.ChatFeed()
	require.NoError(t, err)
	messages, _ := feed.Subscribe(t.Context())

	ctx := context.Background()
	reply, err := chat.Send(ctx, "bonjour")
	require.NoError(t, err)
	assert.Equal(t, "echo: bonjour", reply.Content)

	require.Len(t, messages, 2, "user message and reply are published")
	assert.Equal(t, "bonjour", (<-messages).Content)
	assert.Equal(t, reply.ID, (<-messages).ID)

	translated, err := chat.Translate(ctx, reply.ID, env.app.TranslationLanguage())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLanguage+": echo: bonjour", translated.Translation)
}

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantLevel  Level
		wantText   string
		wantDetail string
	}{
		{"nil", nil, "", "", ""},
		{"bare sentinel", auth.ErrCodeAlreadyUsed, LevelError, "CODE DÉJÀ EXPLOITÉ", ""},
		{"wrapped sentinel", fmt.Errorf("%w: 12:00", predict.ErrIncompleteSignal), LevelError, "SIGNAL INCOMPLET", "incomplete signal: 12:00"},
		{"upstream message kept", fmt.Errorf("%w: quota exhausted", analysis.ErrUpstreamUnavailable), LevelError, "Échec du scan", "analysis service unavailable: quota exhausted"},
		{"stale", ErrStaleResult, LevelInfo, "RÉSULTAT IGNORÉ", ""},
		{"unknown", errors.New("boom"), LevelError, "ERREUR", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NoticeFor(tt.err)
			assert.Equal(t, tt.wantLevel, n.Level)
			assert.Equal(t, tt.wantText, n.Text)
			assert.Equal(t, tt.wantDetail, n.Detail)
		})
	}
}
