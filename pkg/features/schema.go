package features

// SchemaVersion identifies the feature name set and order below. Downstream
// models are trained against one exact version; any rename, addition, removal
// or reordering of Schema must bump it.
const SchemaVersion = 1

// Kind describes the numeric domain of a feature.
type Kind uint8

const (
	// KindCount is an integer tally. nb_redirection may be negative.
	KindCount Kind = iota
	// KindFlag is 0 or 1.
	KindFlag
	// KindRatio is a fraction in [0, 1].
	KindRatio
	// KindMean is a non-negative average.
	KindMean
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCount:
		return "count"
	case KindFlag:
		return "flag"
	case KindRatio:
		return "ratio"
	case KindMean:
		return "mean"
	default:
		return "unknown"
	}
}

// Integral reports whether values of this kind are always whole numbers.
func (k Kind) Integral() bool {
	return k == KindCount || k == KindFlag
}

// Field is one column of the feature schema.
type Field struct {
	Name string
	Kind Kind

	value func(r *record) float64
}

func count(n int) float64 { return float64(n) }

func flag(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

// Schema is the ordered list of features produced by Extract.
var Schema = []Field{ //nolint: gochecknoglobals
	{"length_url", KindCount, func(r *record) float64 { return count(r.lengthURL) }},
	{"length_hostname", KindCount, func(r *record) float64 { return count(r.lengthHostname) }},
	{"ip", KindFlag, func(r *record) float64 { return flag(r.ip) }},
	{"nb_dots", KindCount, func(r *record) float64 { return count(r.symbols[symDot]) }},
	{"nb_hyphens", KindCount, func(r *record) float64 { return count(r.symbols[symHyphen]) }},
	{"nb_at", KindCount, func(r *record) float64 { return count(r.symbols[symAt]) }},
	{"nb_qm", KindCount, func(r *record) float64 { return count(r.symbols[symQuestion]) }},
	{"nb_and", KindCount, func(r *record) float64 { return count(r.symbols[symAnd]) }},
	{"nb_or", KindCount, func(r *record) float64 { return count(r.symbols[symOr]) }},
	{"nb_eq", KindCount, func(r *record) float64 { return count(r.symbols[symEq]) }},
	{"nb_underscore", KindCount, func(r *record) float64 { return count(r.symbols[symUnderscore]) }},
	{"nb_tilde", KindCount, func(r *record) float64 { return count(r.symbols[symTilde]) }},
	{"nb_percent", KindCount, func(r *record) float64 { return count(r.symbols[symPercent]) }},
	{"nb_slash", KindCount, func(r *record) float64 { return count(r.symbols[symSlash]) }},
	{"nb_star", KindCount, func(r *record) float64 { return count(r.symbols[symStar]) }},
	{"nb_colon", KindCount, func(r *record) float64 { return count(r.symbols[symColon]) }},
	{"nb_comma", KindCount, func(r *record) float64 { return count(r.symbols[symComma]) }},
	{"nb_semicolumn", KindCount, func(r *record) float64 { return count(r.symbols[symSemicolon]) }},
	{"nb_dollar", KindCount, func(r *record) float64 { return count(r.symbols[symDollar]) }},
	{"nb_space", KindCount, func(r *record) float64 { return count(r.symbols[symSpace]) }},
	{"nb_www", KindFlag, func(r *record) float64 { return flag(r.www) }},
	{"nb_com", KindFlag, func(r *record) float64 { return flag(r.com) }},
	{"nb_dslash", KindCount, func(r *record) float64 { return count(r.doubleSlashes) }},
	{"http_in_path", KindFlag, func(r *record) float64 { return flag(r.httpInPath) }},
	{"https_token", KindFlag, func(r *record) float64 { return flag(r.httpsToken) }},
	{"ratio_digits_url", KindRatio, func(r *record) float64 { return r.ratioDigitsURL }},
	{"ratio_digits_host", KindRatio, func(r *record) float64 { return r.ratioDigitsHost }},
	{"punycode", KindFlag, func(r *record) float64 { return flag(r.punycode) }},
	{"port", KindCount, func(r *record) float64 { return count(r.port) }},
	{"tld_in_path", KindFlag, func(r *record) float64 { return flag(r.tldInPath) }},
	{"tld_in_subdomain", KindFlag, func(r *record) float64 { return flag(r.tldInSubdomain) }},
	{"abnormal_subdomain", KindFlag, func(r *record) float64 { return flag(r.abnormalSubdomain) }},
	{"nb_subdomains", KindCount, func(r *record) float64 { return count(r.subdomains) }},
	{"prefix_suffix", KindFlag, func(r *record) float64 { return flag(r.prefixSuffix) }},
	{"random_domain", KindFlag, func(r *record) float64 { return flag(r.randomDomain) }},
	{"shortening_service", KindFlag, func(r *record) float64 { return flag(r.shortener) }},
	{"path_extension", KindFlag, func(r *record) float64 { return flag(r.pathExtension) }},
	{"nb_redirection", KindCount, func(r *record) float64 { return count(r.doubleSlashes - 1) }},
	{"nb_external_redirection", KindFlag, func(r *record) float64 { return flag(r.externalRedirection) }},
	{"length_words_raw", KindMean, func(r *record) float64 { return r.wordsRaw.mean }},
	{"char_repeat", KindFlag, func(r *record) float64 { return flag(r.charRepeat) }},
	{"shortest_words_raw", KindCount, func(r *record) float64 { return count(r.wordsRaw.shortest) }},
	{"shortest_word_host", KindCount, func(r *record) float64 { return count(r.wordsHost.shortest) }},
	{"shortest_word_path", KindCount, func(r *record) float64 { return count(r.wordsPath.shortest) }},
	{"longest_words_raw", KindCount, func(r *record) float64 { return count(r.wordsRaw.longest) }},
	{"longest_word_host", KindCount, func(r *record) float64 { return count(r.wordsHost.longest) }},
	{"longest_word_path", KindCount, func(r *record) float64 { return count(r.wordsPath.longest) }},
	{"avg_words_raw", KindMean, func(r *record) float64 { return r.wordsRaw.mean }},
	{"avg_word_host", KindMean, func(r *record) float64 { return r.wordsHost.mean }},
	{"avg_word_path", KindMean, func(r *record) float64 { return r.wordsPath.mean }},
	{"phish_hints", KindCount, func(r *record) float64 { return count(r.phishHints) }},
	{"domain_in_brand", KindFlag, func(r *record) float64 { return flag(r.domainInBrand) }},
	{"brand_in_subdomain", KindFlag, func(r *record) float64 { return flag(r.brandInSubdomain) }},
	{"brand_in_path", KindFlag, func(r *record) float64 { return flag(r.brandInPath) }},
	{"suspecious_tld", KindFlag, func(r *record) float64 { return flag(r.suspiciousTLD) }},
	{"statistical_report", KindFlag, func(r *record) float64 {
		return flag(r.phishHints > 1 || r.symbols[symDot] > 4)
	}},
}

// ProfileNames is the compact subset of features used to sketch a URL's
// profile, e.g. on a radar chart.
var ProfileNames = []string{ //nolint: gochecknoglobals
	"nb_dots",
	"nb_subdomains",
	"ratio_digits_url",
	"phish_hints",
	"suspecious_tld",
	"prefix_suffix",
	"random_domain",
	"http_in_path",
}

var schemaIndex = func() map[string]int { //nolint: gochecknoglobals
	idx := make(map[string]int, len(Schema))
	for i, f := range Schema {
		idx[f.Name] = i
	}

	return idx
}()

// Names returns the feature names in schema order.
func Names() []string {
	names := make([]string, len(Schema))
	for i, f := range Schema {
		names[i] = f.Name
	}

	return names
}

// Lookup returns the schema field with the given name.
func Lookup(name string) (Field, bool) {
	i, ok := schemaIndex[name]
	if !ok {
		return Field{}, false
	}

	return Schema[i], true
}
