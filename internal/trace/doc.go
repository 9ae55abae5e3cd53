// Package trace defines the experiment trace model: the ordered event log a
// run produces, its canonical JSON serialization, and the content-addressed
// fingerprint built from it.
//
// Canonical serialization is the ONLY form used for fingerprints and golden
// comparison. Same run, same bytes:
//
//   - Object keys sorted by UTF-16 code units
//   - Strings NFC-normalized, no HTML escaping
//   - No floats: probabilities are fixed to six decimals at event-creation
//     time (FormatProbability), which also absorbs floating-point jitter
//     between runs
//
// A replay that reproduces the recorded fingerprint is byte-for-byte
// identical to the original run.
package trace
