// Package ids generates the time-plus-random identifiers used for visitors
// and tours. The ids only need to be practically unique across sessions, not
// cryptographically so.
package ids

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// New returns an id of the form <prefix>_<unix-millis>_<7 base36 chars>.
func New(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix(7))
}

func suffix(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
