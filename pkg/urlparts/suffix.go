package urlparts

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SuffixList looks up the public suffix of a lowercased hostname.
// Implementations must be safe for concurrent use and return either a
// dot-aligned suffix of the hostname or the empty string when the hostname has
// no recognizable suffix.
type SuffixList interface {
	Suffix(hostname string) string
}

// SuffixFunc adapts a plain function to the SuffixList interface.
type SuffixFunc func(hostname string) string

// Suffix calls f(hostname).
func (f SuffixFunc) Suffix(hostname string) string { return f(hostname) }

// ICANN resolves suffixes against the ICANN section of the public suffix list
// compiled into golang.org/x/net/publicsuffix. Private-section entries such as
// "github.io" are not treated as suffixes, and hosts under an unknown top
// level label have no suffix at all.
var ICANN SuffixList = SuffixFunc(icannSuffix) //nolint: gochecknoglobals

func icannSuffix(hostname string) string {
	suffix, icann := publicsuffix.PublicSuffix(hostname)
	for !icann {
		// either a private entry or the implicit "*" rule for an unknown TLD:
		// drop the leftmost label and retry against the ICANN rules
		i := strings.IndexByte(suffix, '.')
		if i < 0 {
			return ""
		}
		suffix, icann = publicsuffix.PublicSuffix(suffix[i+1:])
	}

	return suffix
}
