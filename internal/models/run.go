package models

import (
	"fmt"
	"time"
)

// Variant names the source/sink pairing a run used.
type Variant string

const (
	VariantPlaylist  Variant = "playlist"
	VariantLikes     Variant = "likes"
	VariantRekordbox Variant = "rekordbox"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case VariantPlaylist, VariantLikes, VariantRekordbox:
		return true
	}
	return false
}

// Run records one successful export. Rows themselves are never stored.
type Run struct {
	id        string
	sequence  int
	variant   Variant
	source    string
	worksheet string
	rowCount  int
	url       string
	createdAt time.Time
}

// NewRun creates a [Run] stamped with the current time. The ID is assigned on insert.
func NewRun(variant Variant, source, worksheet string, rowCount int, url string) *Run {
	return &Run{
		variant:   variant,
		source:    source,
		worksheet: worksheet,
		rowCount:  rowCount,
		url:       url,
		createdAt: time.Now().UTC(),
	}
}

func (r *Run) ID() string           { return r.id }
func (r *Run) Sequence() int        { return r.sequence }
func (r *Run) Variant() Variant     { return r.variant }
func (r *Run) Source() string       { return r.source }
func (r *Run) Worksheet() string    { return r.worksheet }
func (r *Run) RowCount() int        { return r.rowCount }
func (r *Run) URL() string          { return r.url }
func (r *Run) CreatedAt() time.Time { return r.createdAt }

func (r *Run) SetID(id string)          { r.id = id }
func (r *Run) SetSequence(seq int)      { r.sequence = seq }
func (r *Run) SetCreatedAt(t time.Time) { r.createdAt = t }

// Validate checks the fields the history table requires.
func (r *Run) Validate() error {
	if r.id == "" {
		return fmt.Errorf("run id is required")
	}
	if !r.variant.Valid() {
		return fmt.Errorf("unknown run variant %q", r.variant)
	}
	if r.source == "" {
		return fmt.Errorf("run source is required")
	}
	if r.worksheet == "" {
		return fmt.Errorf("run worksheet is required")
	}
	if r.rowCount < 0 {
		return fmt.Errorf("run row count cannot be negative: %d", r.rowCount)
	}
	return nil
}
