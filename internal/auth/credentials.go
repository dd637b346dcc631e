// ABOUTME: Pure credential transitions: login, registration, recovery, and profile updates
// ABOUTME: Operates on the account list and activation-code ledger of the session document

package auth

import (
	"errors"
	"slices"
	"strings"

	"github.com/aloka/nexus/internal/session"
)

// Credential errors
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCodeAlreadyUsed     = errors.New("activation code already used")
	ErrInvalidCode         = errors.New("invalid activation code")
	ErrUserNotFound        = errors.New("user not found")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidSecurityCode = errors.New("invalid security code")
	ErrIDAlreadyTaken      = errors.New("account id already taken")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrMissingField        = errors.New("account id and password are required")
	ErrIDTooShort          = errors.New("account id is too short")
	ErrPasswordTooShort    = errors.New("password is too short")
)

// ActivationCodes are the one-time codes that gate registration
var ActivationCodes = []string{"210405", "091224", "16088"}

// ProfileCodes authorize a profile change. They are compared untrimmed and
// never consumed.
var ProfileCodes = []string{"210405", "160808"}

// SecurityCode gates password reset. It is never consumed.
const SecurityCode = "16088"

// MinProfileLength is the minimum id and password length on the profile form
const MinProfileLength = 4

// NormalizeID canonicalises an account id: trimmed and uppercase
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsActivationCode reports whether code (trimmed) is in the valid set
func IsActivationCode(code string) bool {
	return slices.Contains(ActivationCodes, strings.TrimSpace(code))
}

// Login authenticates id/password against the stored accounts.
// Passwords compare exactly, case-sensitive.
func Login(id, password string) session.Transition {
	return func(doc session.Document) (session.Document, error) {
		cleanID := NormalizeID(id)
		idx := doc.FindAccount(cleanID)
		if idx < 0 || doc.Accounts[idx].Password != password {
			return doc, ErrInvalidCredentials
		}
		doc.IsAuthenticated = true
		doc.CurrentUser = &cleanID
		return doc, nil
	}
}

// Logout ends the session
func Logout() session.Transition {
	return func(doc session.Document) (session.Document, error) {
		doc.IsAuthenticated = false
		doc.CurrentUser = nil
		return doc, nil
	}
}

// Register creates an account gated by a one-time activation code.
// It does not log the new account in.
func Register(id, password, activationCode string) session.Transition {
	return func(doc session.Document) (session.Document, error) {
		code := strings.TrimSpace(activationCode)
		if doc.CodeUsed(code) {
			return doc, ErrCodeAlreadyUsed
		}
		if !IsActivationCode(code) {
			return doc, ErrInvalidCode
		}

		cleanID := NormalizeID(id)
		if cleanID == "" || password == "" {
			return doc, ErrMissingField
		}
		if doc.FindAccount(cleanID) >= 0 {
			return doc, ErrIDAlreadyTaken
		}

		doc.Accounts = append(doc.Accounts, session.Account{ID: cleanID, Password: password})
		doc.UsedActivationCodes = append(doc.UsedActivationCodes, code)
		return doc, nil
	}
}

// ResetPassword overwrites an account's password in place, gated by the
// fixed security code.
func ResetPassword(id, newPassword, confirmPassword, securityCode string) session.Transition {
	return func(doc session.Document) (session.Document, error) {
		idx := doc.FindAccount(NormalizeID(id))
		if idx < 0 {
			return doc, ErrUserNotFound
		}
		if newPassword != confirmPassword {
			return doc, ErrPasswordMismatch
		}
		if strings.TrimSpace(securityCode) != SecurityCode {
			return doc, ErrInvalidSecurityCode
		}

		doc.Accounts[idx].Password = newPassword
		return doc, nil
	}
}

// UpdateCredentials replaces the logged-in account's id and password in
// place and follows the rename in CurrentUser.
func UpdateCredentials(newID, newPassword string) session.Transition {
	return func(doc session.Document) (session.Document, error) {
		current := doc.User()
		if current == "" {
			return doc, ErrNotAuthenticated
		}
		idx := doc.FindAccount(current)
		if idx < 0 {
			return doc, ErrUserNotFound
		}

		cleanID := NormalizeID(newID)
		if cleanID == "" || newPassword == "" {
			return doc, ErrMissingField
		}
		if other := doc.FindAccount(cleanID); other >= 0 && other != idx {
			return doc, ErrIDAlreadyTaken
		}

		doc.Accounts[idx] = session.Account{ID: cleanID, Password: newPassword}
		doc.CurrentUser = &cleanID
		return doc, nil
	}
}

// UpdateProfile validates the profile form and then applies
// UpdateCredentials. The code must be one of ProfileCodes.
func UpdateProfile(newID, newPassword, confirmPassword, activationCode string) session.Transition {
	return func(doc session.Document) (session.Document, error) {
		if len(strings.TrimSpace(newID)) < MinProfileLength {
			return doc, ErrIDTooShort
		}
		if len(newPassword) < MinProfileLength {
			return doc, ErrPasswordTooShort
		}
		if newPassword != confirmPassword {
			return doc, ErrPasswordMismatch
		}
		if !slices.Contains(ProfileCodes, activationCode) {
			return doc, ErrInvalidCode
		}
		return UpdateCredentials(newID, newPassword)(doc)
	}
}
