// Package artifact loads the structured files exchanged with the
// normalization pipeline: report.json, schema.json and the CSV tables.
//
// Every loader reads through canon.ReadFile first, so a non-canonical
// file surfaces as *canon.FormatError before any parsing happens.
// Structural faults surface as *ParseError.
//
// JSON documents are additionally unified with CUE definitions
// (see definitions.cue) so that ill-typed values are rejected with a
// precise path instead of being silently zeroed by encoding/json.
package artifact
