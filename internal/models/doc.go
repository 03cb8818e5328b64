// Package models defines the domain entities shared by the tracksheet sources, sinks and history store.
//
// The package contains two categories of types:
//
// 1. Transient records: values that live for one run and are never persisted
//   - [Track] : one normalized track, whatever source it came from
//   - [Playlist] : playlist metadata plus its normalized tracks
//   - [Row] : one display row handed to a sink
//
// 2. Persistent entities: database-backed metadata about past runs
//   - [Run] : one successful export (variant, source, worksheet, row count, URL)
//
// Persistent entities implement the [Model] interface; [Repository] describes their storage.
package models
