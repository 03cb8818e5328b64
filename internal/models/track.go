package models

import (
	"time"
)

// Row is one sink-ready record. Cells are strings or ints, written as-is.
type Row = []any

// Track is a normalized record from any source.
//
// ExternalURL is empty for file sources, AddedAt is zero unless the source reports it,
// and Attributes is only populated by file sources.
type Track struct {
	Title       string
	Artists     []string
	ExternalURL string
	AddedAt     time.Time
	Attributes  map[string]string
}

// Playlist is playlist metadata together with its normalized tracks in retrieval order.
type Playlist struct {
	ID     string
	Name   string
	Tracks []Track
}
