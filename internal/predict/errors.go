// ABOUTME: Sentinel errors for the prediction formulas

package predict

import "errors"

var (
	// ErrIncompleteSignal is returned when a required reading is missing
	// from the capture. Analysis parse failures wrap it too.
	ErrIncompleteSignal = errors.New("incomplete signal")

	// ErrUnknownMode is returned for a mode that has no formula
	ErrUnknownMode = errors.New("unknown prediction mode")
)
