// Package urlparts splits raw URL strings into their syntactic components and a
// public-suffix-aware breakdown of the hostname. Splitting never fails: any
// input, including the empty string, yields a Parts value whose missing
// components are empty.
package urlparts

import (
	"net/netip"
	"strconv"
	"strings"
)

// Parts is the decomposition of a single URL. All textual fields are lowercased.
type Parts struct {
	// Scheme is the URL scheme without the trailing colon, e.g. "https".
	Scheme string
	// Host is the full network location as written after "//", including any
	// userinfo and port.
	Host string
	// Hostname is Host without userinfo, port and IPv6 brackets.
	Hostname string
	// Path runs from the end of the network location to the first "?" or "#",
	// without the ";params" of its last segment.
	Path string
	// Params is the text after the ";" that ends Path, for schemes that
	// carry parameters.
	Params string
	// Query is the text between "?" and "#", without the leading "?".
	Query string
	// Port is the explicit port of the network location, or 0 when absent or malformed.
	Port int

	// Domain is the registrable label immediately left of Suffix.
	Domain string
	// Suffix is the public suffix of Hostname, e.g. "co.uk".
	Suffix string
	// Subdomain is everything left of Domain, possibly several labels.
	Subdomain string
}

// Decomposer splits URLs using a fixed public suffix table.
// The zero value is not usable; construct it with New.
type Decomposer struct {
	suffixes SuffixList
}

// New returns a Decomposer backed by the given suffix table.
func New(suffixes SuffixList) *Decomposer {
	return &Decomposer{suffixes: suffixes}
}

var defaultDecomposer = New(ICANN) //nolint: gochecknoglobals

// Decompose splits raw using the ICANN section of the compiled public suffix list.
func Decompose(raw string) Parts {
	return defaultDecomposer.Decompose(raw)
}

// Decompose splits raw into its components. Surrounding whitespace is ignored
// and tabs and line breaks inside raw are dropped before splitting.
func (d *Decomposer) Decompose(raw string) Parts {
	var p Parts

	rest := stripUnsafe(strings.ToLower(strings.TrimSpace(raw)))
	if rest == "" {
		return p
	}

	p.Scheme, rest = splitScheme(rest)

	// fragment is not part of any component we expose
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, p.Query = rest[:i], rest[i+1:]
	}
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		i := strings.IndexByte(rest, '/')
		if i < 0 {
			i = len(rest)
		}
		p.Host, rest = rest[:i], rest[i:]
	}
	p.Path = rest
	if _, ok := paramSchemes[p.Scheme]; ok {
		p.Path, p.Params = splitParams(p.Path)
	}

	var port string
	p.Hostname, port = splitHostPort(p.Host)
	p.Port = parsePort(port)
	p.Subdomain, p.Domain, p.Suffix = d.split(p.Hostname)

	return p
}

// paramSchemes are the schemes whose last path segment may carry ";params".
// A missing scheme counts as one of them.
var paramSchemes = map[string]struct{}{ //nolint: gochecknoglobals
	"": {}, "ftp": {}, "hdl": {}, "prospero": {}, "http": {}, "imap": {}, "https": {}, "shttp": {},
	"rtsp": {}, "rtspu": {}, "sip": {}, "sips": {}, "mms": {}, "sftp": {}, "tel": {},
}

// stripUnsafe drops ASCII tabs, carriage returns and line feeds.
func stripUnsafe(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}

	return strings.Map(func(c rune) rune {
		if c == '\t' || c == '\r' || c == '\n' {
			return -1
		}

		return c
	}, s)
}

// splitParams cuts path at the first ";" of its last segment. Without any
// "/" the first ";" is used.
func splitParams(path string) (string, string) {
	from := max(strings.LastIndexByte(path, '/'), 0)
	i := strings.IndexByte(path[from:], ';')
	if i < 0 {
		return path, ""
	}
	i += from

	return path[:i], path[i+1:]
}

// splitScheme cuts a leading "scheme:" from s. When s has no syntactically
// valid scheme it is returned unchanged.
func splitScheme(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return s[:i], s[i+1:]
		default:
			return "", s
		}
	}

	return "", s
}

// splitHostPort strips userinfo from a network location and separates the
// hostname from the port text. IPv6 brackets are removed.
func splitHostPort(netloc string) (string, string) {
	if i := strings.LastIndexByte(netloc, '@'); i >= 0 {
		netloc = netloc[i+1:]
	}

	if strings.HasPrefix(netloc, "[") {
		end := strings.IndexByte(netloc, ']')
		if end < 0 {
			return netloc[1:], ""
		}
		host, after := netloc[1:end], netloc[end+1:]
		if port, ok := strings.CutPrefix(after, ":"); ok {
			return host, port
		}

		return host, ""
	}

	// the first colon ends the hostname; "a.com:80:90" has the malformed port "80:90"
	host, port, _ := strings.Cut(netloc, ":")

	return host, port
}

// parsePort returns the numeric value of s when it is a plain decimal port
// number in the valid range, 0 otherwise.
func parsePort(s string) int {
	if s == "" {
		return 0
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil || n > 65535 {
		return 0
	}

	return n
}

// split breaks hostname into subdomain, registrable domain label and public suffix.
func (d *Decomposer) split(hostname string) (string, string, string) {
	hostname = strings.TrimSuffix(hostname, ".")
	if hostname == "" {
		return "", "", ""
	}
	if _, err := netip.ParseAddr(hostname); err == nil {
		return "", hostname, ""
	}

	suffix := d.suffixes.Suffix(hostname)
	if suffix == hostname {
		return "", "", suffix
	}

	left := hostname
	if suffix != "" {
		left = strings.TrimSuffix(hostname, "."+suffix)
	}

	i := strings.LastIndexByte(left, '.')
	if i < 0 {
		return "", left, suffix
	}

	return left[:i], left[i+1:], suffix
}
