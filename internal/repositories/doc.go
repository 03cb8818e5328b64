// Package repositories implements SQLite persistence for run history.
//
// [RunRepository] stores one row per successful export and lists them newest first. Only metadata is
// kept; the exported rows themselves are never persisted.
//
// Sequence numbers provide stable ordering independent of UUIDs and wall-clock timestamps.
// [NextSequence] increments the per-table counter kept in a dedicated "<table>_sequence" table.
package repositories
