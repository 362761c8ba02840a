// Package verify checks the artifacts of a normalizer run against their
// fixtures and against each other.
//
// A Checker evaluates one case at a time, strictly in this order, and
// stops at the first violation:
//
//  1. artifact presence: normalized.csv, errors.csv, report.json exist
//  2. canonical text: each artifact is UTF-8 with LF line endings only
//  3. report identity: report.tool names the expected pipeline
//  4. fixture presence: raw.csv and schema.json exist
//  5. digests: sha256_input, sha256_schema, sha256_normalized,
//     sha256_errors match the files
//  6. row counts: rows_total == rows_ok + rows_error
//  7. header order: normalized.csv header equals the schema column names
//  8. goldens (opt-in): outputs are byte-identical to the expected copies
//
// Cases whose fixture directory carries an error.txt marker are
// expected-failure cases. They are reported as Skip without touching the
// output tree; their recorded error string is carried on the Outcome.
//
// The verifier only reads. Nothing under the fixture or output roots is
// created, modified or removed.
package verify
