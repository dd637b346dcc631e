// Package analysis extracts crash readings from game screenshots.
//
// An Analyzer sends an image to a vision model and returns the model's raw
// JSON text. ParseModeReading and ParseSeedReading validate that text: a
// parse failure and a missing required field are both
// predict.ErrIncompleteSignal. Transport failures are
// ErrUpstreamUnavailable carrying the upstream message.
//
// GeminiAnalyzer is the production Analyzer, built on google.golang.org/genai
// with a JSON response schema and thinking disabled.
package analysis
