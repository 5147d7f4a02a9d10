package mailer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ForceASCII transliterates a string to plain ASCII: narrow no-break and
// non-breaking spaces become regular spaces, accented characters lose their
// marks (é -> e), and anything still outside ASCII is dropped. Every string
// bound for a mail header must pass through here first; a header encoding
// failure silently drops the whole send.
func ForceASCII(s string) string {
	s = strings.NewReplacer(" ", " ", " ", " ").Replace(s)
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark left over from decomposition
		}
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
