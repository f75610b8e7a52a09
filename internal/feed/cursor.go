package feed

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// cursor encodes where the next page starts in the caller's merged result
// set. Opaque to callers; carries no authentication semantics.
type cursor struct {
	Offset   int       `json:"offset"`
	IssuedAt time.Time `json:"issuedAt"`
}

func encodeCursor(offset int) string {
	b, _ := json.Marshal(cursor{Offset: offset, IssuedAt: time.Now().UTC()})
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeCursor returns the embedded offset. An absent or undecodable cursor
// is never an error; it silently resets to the first page.
func decodeCursor(s string) int {
	if s == "" {
		return 0
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0
	}
	var c cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return 0
	}
	if c.Offset < 0 {
		return 0
	}
	return c.Offset
}
