// Package audit provides the cosmetic integrity stamp shown on predictions.
//
// Hash returns 64 random hex characters. It is not derived from the
// prediction and proves nothing.
//
// A Verifier hands out one Panel per prediction. A panel starts IDLE;
// Verify moves it to CHECKING and, after a fixed delay on the injected
// clock, to VERIFIED. There is no failure state. Closing a panel discards
// it, so reopening starts from IDLE again.
package audit
