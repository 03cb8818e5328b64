// package tracks resolves collection references and normalizes raw records into [models.Track] values and rows
package tracks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/tracksheet/internal/shared"
)

var playlistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`playlist/([a-zA-Z0-9]+)`),
	regexp.MustCompile(`playlist:([a-zA-Z0-9]+)`),
}

// InvalidReferenceError reports a string that names no playlist.
type InvalidReferenceError struct {
	Reference string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("could not extract playlist ID from URL: %s", e.Reference)
}

func (e *InvalidReferenceError) Unwrap() error {
	return shared.ErrInvalidReference
}

// ParsePlaylistID extracts the playlist ID from a share URL or a spotify: URI.
//
// The query string and fragment are dropped first. The ID is returned as written.
func ParsePlaylistID(ref string) (string, error) {
	cleaned, _, _ := strings.Cut(ref, "?")
	cleaned, _, _ = strings.Cut(cleaned, "#")

	for _, re := range playlistPatterns {
		if m := re.FindStringSubmatch(cleaned); m != nil {
			return m[1], nil
		}
	}

	return "", &InvalidReferenceError{Reference: cleaned}
}
