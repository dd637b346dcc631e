// ABOUTME: User-facing notices for operation outcomes
// ABOUTME: Maps every sentinel error of the engine to a transient toast

package app

import (
	"errors"

	"github.com/aloka/nexus/internal/analysis"
	"github.com/aloka/nexus/internal/audit"
	"github.com/aloka/nexus/internal/auth"
	"github.com/aloka/nexus/internal/conversation"
	"github.com/aloka/nexus/internal/platform"
	"github.com/aloka/nexus/internal/predict"
	"github.com/aloka/nexus/internal/session"
)

// Level is the severity of a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient message for the user. Detail carries the
// underlying error text when it adds something.
type Notice struct {
	Level  Level
	Text   string
	Detail string
}

// Success notices
var (
	NoticeLoggedIn      = Notice{Level: LevelSuccess, Text: "SESSION ÉTABLIE"}
	NoticeRegistered    = Notice{Level: LevelSuccess, Text: "COMPTE CRÉÉ AVEC SUCCÈS"}
	NoticePasswordReset = Notice{Level: LevelSuccess, Text: "MOT DE PASSE RÉINITIALISÉ"}
	NoticeAccountSaved  = Notice{Level: LevelSuccess, Text: "COMPTE MIS À JOUR"}
	NoticeSynced        = Notice{Level: LevelSuccess, Text: "SYNCHRONISATION TERMINÉE"}
	NoticeNotifications = Notice{Level: LevelSuccess, Text: "NOTIFICATIONS MISES À JOUR"}
	NoticeWallpaper     = Notice{Level: LevelSuccess, Text: "FOND D'ÉCRAN APPLIQUÉ"}
	NoticeAnalysisDone  = Notice{Level: LevelSuccess, Text: "ANALYSE TERMINÉE"}
	NoticeSeedDone      = Notice{Level: LevelSuccess, Text: "ALGORITHME SEED CALCULÉ"}
	NoticeVerified      = Notice{Level: LevelSuccess, Text: "AUDIT VÉRIFIÉ"}
	NoticeHistoryClear  = Notice{Level: LevelInfo, Text: "HISTORIQUE EFFACÉ"}
)

var noticeTable = []struct {
	err    error
	notice Notice
}{
	{auth.ErrInvalidCredentials, Notice{Level: LevelError, Text: "IDENTIFIANTS INVALIDES"}},
	{auth.ErrCodeAlreadyUsed, Notice{Level: LevelError, Text: "CODE DÉJÀ EXPLOITÉ"}},
	{auth.ErrInvalidCode, Notice{Level: LevelError, Text: "CODE D'ACTIVATION INCORRECT"}},
	{auth.ErrUserNotFound, Notice{Level: LevelError, Text: "UTILISATEUR NON TROUVÉ"}},
	{auth.ErrPasswordMismatch, Notice{Level: LevelError, Text: "LES MOTS DE PASSE NE CORRESPONDENT PAS"}},
	{auth.ErrInvalidSecurityCode, Notice{Level: LevelError, Text: "CODE DE SÉCURITÉ 16088 REQUIS"}},
	{auth.ErrIDAlreadyTaken, Notice{Level: LevelError, Text: "IDENTIFIANT DÉJÀ UTILISÉ"}},
	{auth.ErrNotAuthenticated, Notice{Level: LevelError, Text: "SESSION REQUISE"}},
	{auth.ErrMissingField, Notice{Level: LevelWarning, Text: "CHAMPS REQUIS"}},
	{auth.ErrIDTooShort, Notice{Level: LevelWarning, Text: "IDENTIFIANT TROP COURT"}},
	{auth.ErrPasswordTooShort, Notice{Level: LevelWarning, Text: "MOT DE PASSE TROP COURT"}},
	{platform.ErrIncompleteSelection, Notice{Level: LevelWarning, Text: "SÉLECTION INCOMPLÈTE"}},
	{platform.ErrEngineUnavailable, Notice{Level: LevelWarning, Text: "MOTEUR INDISPONIBLE"}},
	{platform.ErrUnknownPlatform, Notice{Level: LevelError, Text: "PLATEFORME INCONNUE"}},
	{platform.ErrUnknownEngine, Notice{Level: LevelError, Text: "MOTEUR INCONNU"}},
	{predict.ErrIncompleteSignal, Notice{Level: LevelError, Text: "SIGNAL INCOMPLET"}},
	{predict.ErrUnknownMode, Notice{Level: LevelError, Text: "MODE INCONNU"}},
	{analysis.ErrUpstreamUnavailable, Notice{Level: LevelError, Text: "Échec du scan"}},
	{audit.ErrPanelClosed, Notice{Level: LevelInfo, Text: "AUDIT FERMÉ"}},
	{conversation.ErrEmptyMessage, Notice{Level: LevelWarning, Text: "MESSAGE VIDE"}},
	{conversation.ErrBusy, Notice{Level: LevelWarning, Text: "RÉPONSE EN COURS"}},
	{conversation.ErrMessageNotFound, Notice{Level: LevelError, Text: "MESSAGE INTROUVABLE"}},
	{conversation.ErrNotTranslatable, Notice{Level: LevelWarning, Text: "TRADUCTION INDISPONIBLE"}},
	{session.ErrUnknownView, Notice{Level: LevelError, Text: "VUE INCONNUE"}},
	{session.ErrUnknownNotification, Notice{Level: LevelError, Text: "RÉGLAGE INCONNU"}},
	{session.ErrStorage, Notice{Level: LevelWarning, Text: "SAUVEGARDE IMPOSSIBLE"}},
	{ErrStaleResult, Notice{Level: LevelInfo, Text: "RÉSULTAT IGNORÉ"}},
	{ErrPredictionNotFound, Notice{Level: LevelError, Text: "PRÉDICTION INTROUVABLE"}},
	{ErrAnalysisDisabled, Notice{Level: LevelError, Text: "ANALYSE INDISPONIBLE"}},
	{ErrChatDisabled, Notice{Level: LevelError, Text: "ASSISTANT INDISPONIBLE"}},
}

// NoticeFor converts an operation error into a notice. Errors outside the
// engine's taxonomy become a generic error notice with the error text as
// detail. A nil error yields the zero Notice.
func NoticeFor(err error) Notice {
	if err == nil {
		return Notice{}
	}
	for _, entry := range noticeTable {
		if errors.Is(err, entry.err) {
			n := entry.notice
			if err.Error() != entry.err.Error() {
				n.Detail = err.Error()
			}
			return n
		}
	}
	return Notice{Level: LevelError, Text: "ERREUR", Detail: err.Error()}
}
