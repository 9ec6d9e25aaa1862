// Package position decodes the annotationPosition payload Zotero stores on
// annotation items. The payload is a JSON object serialized into a string
// field; it is decoded with a structured JSON parser, never evaluated.
package position

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed reports an absent or undecodable position payload.
var ErrMalformed = errors.New("malformed annotation position")

// Position is the decoded annotation position. PageIndex is 0-based.
// Rects are stored-space rectangles [x0, y0, x1, y1] with a bottom-left
// origin.
type Position struct {
	PageIndex int         `json:"pageIndex"`
	Rects     [][]float64 `json:"rects"`
}

// Decode parses a raw annotationPosition string. An empty string or one
// that is not a JSON object wraps ErrMalformed.
func Decode(raw string) (Position, error) {
	var pos Position
	if raw == "" {
		return pos, fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	if err := json.Unmarshal([]byte(raw), &pos); err != nil {
		return pos, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return pos, nil
}

// FirstRect returns the first rectangle of the position. It errors when no
// rectangle is present or the first one is not a 4-tuple.
func (p Position) FirstRect() ([4]float64, error) {
	var r [4]float64
	if len(p.Rects) == 0 {
		return r, fmt.Errorf("%w: no rects", ErrMalformed)
	}
	if len(p.Rects[0]) != 4 {
		return r, fmt.Errorf("%w: rect has %d values, want 4", ErrMalformed, len(p.Rects[0]))
	}
	copy(r[:], p.Rects[0])
	return r, nil
}

// Page returns the 1-based page number for the position.
func (p Position) Page() int {
	return p.PageIndex + 1
}
