// Package rekordbox reads track records from a Rekordbox library export (rekordbox.xml).
//
// The export is streamed with [encoding/xml]; every TRACK element yields its attributes
// as a map, in document order, without loading the whole library into memory.
package rekordbox

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/desertthunder/tracksheet/internal/shared"
)

const (
	trackElement      = "TRACK"
	collectionElement = "COLLECTION"
)

// Reader streams TRACK records out of an export.
type Reader struct {
	// CollectionOnly limits records to TRACK elements inside COLLECTION,
	// skipping the key-only references under PLAYLISTS.
	CollectionOnly bool
}

// Tracks yields the attribute map of every TRACK element at any depth, in document order.
// Iteration stops after the first error is yielded.
func (rd Reader) Tracks(r io.Reader) iter.Seq2[map[string]string, error] {
	return func(yield func(map[string]string, error) bool) {
		dec := xml.NewDecoder(r)
		var stack []string
		sawRoot := false

		for {
			tok, err := dec.Token()
			if errors.Is(err, io.EOF) {
				if !sawRoot {
					yield(nil, fmt.Errorf("%w: export contains no XML document", shared.ErrInvalidInput))
				}
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("%w: failed to parse export: %v", shared.ErrInvalidInput, err))
				return
			}

			switch el := tok.(type) {
			case xml.StartElement:
				sawRoot = true
				if el.Name.Local == trackElement && (!rd.CollectionOnly || slices.Contains(stack, collectionElement)) {
					attrs := make(map[string]string, len(el.Attr))
					for _, a := range el.Attr {
						attrs[a.Name.Local] = a.Value
					}
					if !yield(attrs, nil) {
						return
					}
				}
				stack = append(stack, el.Name.Local)
			case xml.EndElement:
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}
}

// ReadFile opens path and buffers every record from [Reader.Tracks].
func (rd Reader) ReadFile(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open export: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	records, err := shared.Collect(rd.Tracks(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
