// Package features derives the fixed, ordered phishing feature vector of a URL.
// Every feature is a pure function of the URL text and its decomposition: no
// network lookups happen here, and any input, including malformed or empty
// strings, produces a complete vector.
package features

import (
	"phishfeatures/pkg/urlparts"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// a loose IPv4 fragment, not a full address
	ipFragment = regexp.MustCompile(`\p{Nd}{1,3}\.\p{Nd}{1,3}`) //nolint: gochecknoglobals
	// file-extension-like ending of a path
	extensionSuffix = regexp.MustCompile(`\.[a-zA-Z0-9]{1,4}$`) //nolint: gochecknoglobals

	shorteningServices = []string{ //nolint: gochecknoglobals
		"bit.ly", "tinyurl", "t.co", "goo.gl", "ow.ly", "is.gd", "buff.ly", "adf.ly",
	}
	suspiciousKeywords = []string{ //nolint: gochecknoglobals
		"secure", "account", "login", "update", "verify", "bank", "signin", "confirm", "alert",
	}
	suspiciousTLDs = map[string]struct{}{ //nolint: gochecknoglobals
		"ru": {}, "cn": {}, "tk": {}, "ml": {}, "ga": {}, "gq": {},
	}
)

// symbol indexes into record.symbols, in the order of symbolChars.
const (
	symDot = iota
	symHyphen
	symAt
	symQuestion
	symAnd
	symOr
	symEq
	symUnderscore
	symTilde
	symPercent
	symSlash
	symStar
	symColon
	symComma
	symSemicolon
	symDollar
	symSpace
	numSymbols
)

const symbolChars = ".-@?&|=_~%/*:,;$ "

// record holds the typed intermediate values of one extraction. Schema
// projects it into the ordered vector.
type record struct {
	lengthURL      int
	lengthHostname int
	ip             bool
	symbols        [numSymbols]int
	www            bool
	com            bool
	doubleSlashes  int

	httpInPath      bool
	httpsToken      bool
	ratioDigitsURL  float64
	ratioDigitsHost float64
	punycode        bool
	port            int

	tldInPath         bool
	tldInSubdomain    bool
	abnormalSubdomain bool
	subdomains        int
	prefixSuffix      bool
	randomDomain      bool

	shortener           bool
	pathExtension       bool
	externalRedirection bool

	wordsRaw   wordStats
	wordsHost  wordStats
	wordsPath  wordStats
	charRepeat bool

	phishHints       int
	domainInBrand    bool
	brandInSubdomain bool
	brandInPath      bool
	suspiciousTLD    bool
}

// Extract decomposes raw with the default suffix table and computes its vector.
func Extract(raw string) Vector {
	return Compute(raw, urlparts.Decompose(raw))
}

// Compute returns the feature vector of raw given its decomposition. parts
// must come from decomposing the same raw string.
func Compute(raw string, parts urlparts.Parts) Vector {
	r := newRecord(strings.ToLower(strings.TrimSpace(raw)), parts)

	values := make([]float64, len(Schema))
	for i, f := range Schema {
		values[i] = f.value(&r)
	}

	return Vector{values: values}
}

func newRecord(full string, p urlparts.Parts) record {
	r := record{
		lengthURL:      utf8.RuneCountInString(full),
		lengthHostname: utf8.RuneCountInString(p.Host),
		ip:             ipFragment.MatchString(p.Host),
		www:            strings.Contains(p.Host, "www"),
		com:            strings.Contains(full, ".com"),
		doubleSlashes:  strings.Count(full, "//"),

		httpInPath:      strings.Contains(p.Path, "http"),
		httpsToken:      strings.HasPrefix(full, "https"),
		ratioDigitsURL:  digitRatio(full),
		ratioDigitsHost: digitRatio(p.Host),
		punycode:        strings.Contains(p.Host, "xn--"),
		port:            p.Port,

		tldInPath:      p.Suffix != "" && strings.Contains(p.Path, p.Suffix),
		tldInSubdomain: p.Suffix != "" && strings.Contains(p.Subdomain, p.Suffix),
		prefixSuffix:   strings.Contains(p.Domain, "-"),
		randomDomain: strings.ContainsAny(p.Domain, "0123456789") &&
			utf8.RuneCountInString(p.Domain) >= 10,

		shortener:           containsAny(full, shorteningServices),
		pathExtension:       extensionSuffix.MatchString(p.Path),
		externalRedirection: strings.Contains(p.Path, "//"),

		wordsRaw:   newWordStats(full),
		wordsHost:  newWordStats(p.Host),
		wordsPath:  newWordStats(p.Path),
		charRepeat: hasRepeatedRun(full, 3),

		domainInBrand:    p.Domain != "" && strings.Contains(full, p.Domain),
		brandInSubdomain: containsAny(p.Subdomain, suspiciousKeywords),
		brandInPath:      containsAny(p.Path, suspiciousKeywords),
	}

	for i := range numSymbols {
		r.symbols[i] = strings.Count(full, symbolChars[i:i+1])
	}

	for _, label := range strings.Split(p.Subdomain, ".") {
		if label != "" {
			r.subdomains++
		}
	}
	r.abnormalSubdomain = r.subdomains > 3

	for _, k := range suspiciousKeywords {
		if strings.Contains(full, k) {
			r.phishHints++
		}
	}

	_, r.suspiciousTLD = suspiciousTLDs[p.Suffix]

	return r
}

// digitForms are the digit characters outside category Nd, such as
// superscripts and circled digits, that still count as digits.
var digitForms = &unicode.RangeTable{ //nolint: gochecknoglobals
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1e8c7, Hi: 0x1e8cf, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

func isDigit(c rune) bool {
	return unicode.IsDigit(c) || unicode.Is(digitForms, c)
}

// digitRatio is the share of digits among the runes of s. An empty string
// has ratio 0.
func digitRatio(s string) float64 {
	var runes, digits int
	for _, c := range s {
		runes++
		if isDigit(c) {
			digits++
		}
	}

	return float64(digits) / float64(max(1, runes))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}

	return false
}

// hasRepeatedRun reports whether some rune other than a newline occurs at
// least n times in a row.
func hasRepeatedRun(s string, n int) bool {
	var (
		prev rune = -1
		run  int
	)
	for _, c := range s {
		if c == prev && c != '\n' {
			run++
		} else {
			prev, run = c, 1
		}
		if run >= n {
			return true
		}
	}

	return false
}
