// Package auth implements the local credential registry.
//
// # Overview
//
// Accounts live in the session document as {id, password} records. Ids are
// normalised (trimmed, uppercase) and unique; passwords compare exactly.
//
// # Flows
//
//   - Login: id + password against the stored accounts
//   - Register: gated by a one-time activation code from ActivationCodes;
//     a consumed code is rejected forever with ErrCodeAlreadyUsed
//   - ResetPassword: gated by the fixed SecurityCode, which is never consumed
//   - UpdateCredentials / UpdateProfile: rename the logged-in account
//
// Every flow is a session.Transition, so a rejected attempt never mutates
// the document. Registry wraps the transitions with the LOGIN / REGISTER /
// FORGOT form state machine and returns to LOGIN after a successful
// registration or reset.
//
// # Errors
//
// ErrInvalidCredentials, ErrCodeAlreadyUsed, ErrInvalidCode,
// ErrUserNotFound, ErrPasswordMismatch, ErrInvalidSecurityCode,
// ErrIDAlreadyTaken, ErrNotAuthenticated, ErrMissingField, ErrIDTooShort,
// ErrPasswordTooShort.
package auth
