// ABOUTME: Credential registry state machine over the LOGIN, REGISTER and FORGOT modes
// ABOUTME: Dispatches credential transitions and moves back to LOGIN after successful flows

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aloka/nexus/internal/session"
)

// Mode is the form the registry is currently showing
type Mode string

const (
	ModeLogin    Mode = "LOGIN"
	ModeRegister Mode = "REGISTER"
	ModeForgot   Mode = "FORGOT"
)

// Dispatcher applies a named transition to the session document.
// *session.Container implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, t session.Transition) (session.Document, error)
}

// Registry drives the credential flows against the session document
type Registry struct {
	mu     sync.Mutex
	mode   Mode
	docs   Dispatcher
	logger *slog.Logger
}

// NewRegistry creates a registry in LOGIN mode
func NewRegistry(docs Dispatcher, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		mode:   ModeLogin,
		docs:   docs,
		logger: logger.With("component", "auth"),
	}
}

// Mode returns the current form mode
func (r *Registry) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// SetMode switches forms. Unknown modes fall back to LOGIN.
func (r *Registry) SetMode(m Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch m {
	case ModeLogin, ModeRegister, ModeForgot:
		r.mode = m
	default:
		r.mode = ModeLogin
	}
}

// Login authenticates against the stored accounts
func (r *Registry) Login(ctx context.Context, id, password string) error {
	doc, err := r.docs.Dispatch(ctx, "login", Login(id, password))
	if committed(err) {
		r.logger.Info("session established", "user", doc.User())
	} else {
		r.logger.Info("login rejected", "user", NormalizeID(id))
	}
	return err
}

// Logout ends the session
func (r *Registry) Logout(ctx context.Context) error {
	_, err := r.docs.Dispatch(ctx, "logout", Logout())
	return err
}

// Register creates an account and returns to LOGIN mode on success
func (r *Registry) Register(ctx context.Context, id, password, activationCode string) error {
	_, err := r.docs.Dispatch(ctx, "register", Register(id, password, activationCode))
	if committed(err) {
		r.logger.Info("account registered", "user", NormalizeID(id))
		r.SetMode(ModeLogin)
	}
	return err
}

// ResetPassword overwrites a password and returns to LOGIN mode on success
func (r *Registry) ResetPassword(ctx context.Context, id, newPassword, confirmPassword, securityCode string) error {
	_, err := r.docs.Dispatch(ctx, "reset_password", ResetPassword(id, newPassword, confirmPassword, securityCode))
	if committed(err) {
		r.logger.Info("password reset", "user", NormalizeID(id))
		r.SetMode(ModeLogin)
	}
	return err
}

// UpdateCredentials renames the logged-in account and sets a new password
func (r *Registry) UpdateCredentials(ctx context.Context, newID, newPassword string) error {
	_, err := r.docs.Dispatch(ctx, "update_credentials", UpdateCredentials(newID, newPassword))
	return err
}

// UpdateProfile runs the profile form validation before UpdateCredentials
func (r *Registry) UpdateProfile(ctx context.Context, newID, newPassword, confirmPassword, activationCode string) error {
	_, err := r.docs.Dispatch(ctx, "update_profile", UpdateProfile(newID, newPassword, confirmPassword, activationCode))
	return err
}

// committed reports whether a dispatch result means the transition took
// effect. A storage failure still commits the in-memory change.
func committed(err error) bool {
	return err == nil || errors.Is(err, session.ErrStorage)
}
