// Package predict turns captured crash readings into prediction records.
//
// Two families of formulas live here:
//
//   - Mode formulas (BONNE, MAUVAISE, ROSE): two signals at fixed offsets
//     from the last observed crash time, with a 0-4 second jitter and a
//     multiplier drawn uniformly from a per-slot range. Confidences are
//     fixed per slot.
//   - The quantum seed formula (DIRECT): one signal derived only from the
//     fractional parts of the last two crash multipliers and a base time.
//     Its multiplier is never below 1.00.
//
// All randomness comes from a Rand and all wall-clock reads from a
// clock.Clock, so tests can pin both. None of this is a real forecast and
// nothing here is cryptographic.
package predict
