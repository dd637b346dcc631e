// ABOUTME: Analysis, history, audit and sync flows over the session document
// ABOUTME: Records predictions only while the originating view is still active

package app

import (
	"context"
	"errors"

	"github.com/aloka/nexus/internal/analysis"
	"github.com/aloka/nexus/internal/audit"
	"github.com/aloka/nexus/internal/auth"
	"github.com/aloka/nexus/internal/clock"
	"github.com/aloka/nexus/internal/platform"
	"github.com/aloka/nexus/internal/predict"
	"github.com/aloka/nexus/internal/session"
)

// Analyze reads a mode-based capture with the analysis service and records
// the resulting prediction. On any failure the history is left untouched.
func (a *App) Analyze(ctx context.Context, mode session.Mode, image []byte) (session.Prediction, error) {
	origin, err := a.originView()
	if err != nil {
		return session.Prediction{}, err
	}
	if a.analyzer == nil {
		return session.Prediction{}, ErrAnalysisDisabled
	}
	if _, ok := predict.Formulas[mode]; !ok {
		return session.Prediction{}, predict.ErrUnknownMode
	}

	raw, err := a.analyzer.AnalyzeScreenshot(ctx, image)
	if err != nil {
		a.logger.Warn("screenshot analysis failed", "mode", mode, "error", err)
		return session.Prediction{}, err
	}
	reading, err := analysis.ParseModeReading(raw)
	if err != nil {
		a.logger.Warn("screenshot reading incomplete", "mode", mode, "error", err)
		return session.Prediction{}, err
	}

	return a.predictFrom(ctx, origin, predict.ModeRequest{
		Mode:           mode,
		LastTime:       reading.LastTime,
		LastMultiplier: reading.LastMultiplier,
		LastRoundID:    reading.LastRoundID,
	})
}

// Predict records a mode-based prediction from readings entered by hand
func (a *App) Predict(ctx context.Context, req predict.ModeRequest) (session.Prediction, error) {
	origin, err := a.originView()
	if err != nil {
		return session.Prediction{}, err
	}
	return a.predictFrom(ctx, origin, req)
}

func (a *App) predictFrom(ctx context.Context, origin session.View, req predict.ModeRequest) (session.Prediction, error) {
	doc := a.docs.Snapshot()
	if doc.SyncedPlatform != nil {
		req.Platform = *doc.SyncedPlatform
	}
	req.Engine = doc.SyncedEngine

	p, err := a.generator.Generate(req)
	if err != nil {
		return session.Prediction{}, err
	}
	return a.record(ctx, origin, p)
}

// Seed reads a seed capture with the analysis service and records the
// DIRECT prediction
func (a *App) Seed(ctx context.Context, source predict.Source, image []byte) (session.Prediction, error) {
	origin, err := a.originView()
	if err != nil {
		return session.Prediction{}, err
	}
	if a.analyzer == nil {
		return session.Prediction{}, ErrAnalysisDisabled
	}

	raw, err := a.analyzer.AnalyzeSeed(ctx, image)
	if err != nil {
		a.logger.Warn("seed analysis failed", "source", source, "error", err)
		return session.Prediction{}, err
	}
	reading, err := analysis.ParseSeedReading(raw)
	if err != nil {
		a.logger.Warn("seed reading incomplete", "source", source, "error", err)
		return session.Prediction{}, err
	}

	return a.seedFrom(ctx, origin, predict.SeedRequest{
		Multiplier1: reading.Multiplier1,
		Multiplier2: reading.Multiplier2,
		BaseTime:    reading.BaseTime,
		Source:      source,
	})
}

// PredictDirect records a DIRECT prediction from multipliers entered by hand
func (a *App) PredictDirect(ctx context.Context, req predict.SeedRequest) (session.Prediction, error) {
	origin, err := a.originView()
	if err != nil {
		return session.Prediction{}, err
	}
	return a.seedFrom(ctx, origin, req)
}

func (a *App) seedFrom(ctx context.Context, origin session.View, req predict.SeedRequest) (session.Prediction, error) {
	req.Engine = a.docs.Snapshot().SyncedEngine
	p, err := a.generator.GenerateDirect(req)
	if err != nil {
		return session.Prediction{}, err
	}
	return a.record(ctx, origin, p)
}

// originView returns the view an analysis starts from. Analyses need a
// session.
func (a *App) originView() (session.View, error) {
	doc := a.docs.Snapshot()
	if !doc.IsAuthenticated {
		return "", auth.ErrNotAuthenticated
	}
	return doc.CurrentView, nil
}

// record prepends p to the history if origin is still the current view.
// The check and the insert happen in one transition.
func (a *App) record(ctx context.Context, origin session.View, p session.Prediction) (session.Prediction, error) {
	_, err := a.docs.Dispatch(ctx, "add_prediction", func(doc session.Document) (session.Document, error) {
		if doc.CurrentView != origin {
			return doc, ErrStaleResult
		}
		return session.AddPrediction(p)(doc)
	})
	if !committed(err) {
		if errors.Is(err, ErrStaleResult) {
			a.logger.Info("late analysis result discarded", "prediction_id", p.ID, "origin", origin)
		}
		return session.Prediction{}, err
	}
	a.logger.Info("prediction recorded", "prediction_id", p.ID, "mode", p.Mode, "platform", p.Platform)
	return p, err
}

// History returns the predictions, most recent first
func (a *App) History() []session.Prediction {
	return a.docs.Snapshot().Predictions
}

// ClearHistory removes every prediction and closes their audit panels
func (a *App) ClearHistory(ctx context.Context) error {
	for _, p := range a.docs.Snapshot().Predictions {
		a.verifier.Close(p.ID)
	}
	_, err := a.docs.Dispatch(ctx, "clear_history", session.ClearHistory())
	return err
}

// Verify opens the audit panel of a prediction and starts its check
func (a *App) Verify(ctx context.Context, predictionID string) (*clock.Completion[audit.State], error) {
	if !a.hasPrediction(predictionID) {
		return nil, ErrPredictionNotFound
	}
	return a.verifier.Open(predictionID).Verify()
}

// CloseAudit closes a prediction's audit panel, discarding its state
func (a *App) CloseAudit(predictionID string) {
	a.verifier.Close(predictionID)
}

// AuditState returns the state of a prediction's audit panel
func (a *App) AuditState(predictionID string) audit.State {
	return a.verifier.State(predictionID)
}

func (a *App) hasPrediction(id string) bool {
	for _, p := range a.docs.Snapshot().Predictions {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Selector returns the sync modal's platform and engine selector
func (a *App) Selector() *platform.Selector {
	return a.handshake.Selector()
}

// SyncState returns the handshake progress
func (a *App) SyncState() platform.State {
	return a.handshake.State()
}

// Sync submits the current selection. Pass the resolved outcome to
// CompleteSync.
func (a *App) Sync(ctx context.Context) (*clock.Completion[platform.Outcome], error) {
	return a.handshake.Submit(ctx)
}

// CompleteSync closes the sync modal once the handshake committed and
// returns the outcome's error
func (a *App) CompleteSync(out platform.Outcome) error {
	if committed(out.Err) {
		a.CloseSync()
	}
	return out.Err
}

// SyncAndWait runs the whole handshake and returns its outcome
func (a *App) SyncAndWait(ctx context.Context) (platform.Outcome, error) {
	pending, err := a.Sync(ctx)
	if err != nil {
		return platform.Outcome{}, err
	}
	out, err := pending.Wait(ctx)
	if err != nil {
		return platform.Outcome{}, err
	}
	return out, a.CompleteSync(out)
}
