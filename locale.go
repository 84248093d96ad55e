package jsontree

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// localeDecimalPoint returns the decimal-separator byte the current
// process locale would use, matching spec.md §4.3/§6/§9's requirement
// that the parser and serializer discover the platform decimal point
// and normalize it at the boundary so the wire format always uses '.'.
//
// There is no Go standard-library equivalent of a locale-aware decimal
// point (Go's number formatting is always locale-independent), so this
// reads the POSIX locale
// environment variables the same way libc does (LC_ALL, then LC_NUMERIC,
// then LANG) and resolves them through golang.org/x/text/language to
// decide whether that locale conventionally uses a comma. This is
// necessarily a heuristic (there is no portable way to ask the OS for
// an arbitrary locale's numeric formatting without cgo). Only
// parseNumberAt consults it: it substitutes the detected separator for
// '.' and then substitutes '.' back before conversion. formatNumber does
// not consult it, since strconv always writes '.'.
func localeDecimalPoint() byte {
	tag := currentLocaleTag()
	if usesCommaDecimal(tag) {
		return ','
	}
	return '.'
}

func currentLocaleTag() language.Tag {
	for _, env := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		// POSIX locale strings look like "de_DE.UTF-8" or "C"/"POSIX".
		name := v
		if i := strings.IndexAny(name, ".@"); i >= 0 {
			name = name[:i]
		}
		name = strings.ReplaceAll(name, "_", "-")
		if name == "" || name == "C" || name == "POSIX" {
			continue
		}
		if tag, err := language.Parse(name); err == nil {
			return tag
		}
	}
	return language.AmericanEnglish
}

// commaDecimalRegions lists language base values whose conventional
// numeric formatting (per CLDR, the data golang.org/x/text is built
// from) uses a comma decimal separator rather than a period. This
// mirrors the small set of locales a C program would actually observe
// via LC_NUMERIC on a typical Linux/glibc system.
var commaDecimalRegions = map[string]bool{
	"de": true, "fr": true, "es": true, "it": true, "nl": true,
	"pt": true, "ru": true, "pl": true, "sv": true, "fi": true,
	"da": true, "nb": true, "tr": true, "cs": true, "sk": true,
	"el": true, "hu": true, "ro": true, "uk": true, "bg": true,
}

func usesCommaDecimal(tag language.Tag) bool {
	base, _ := tag.Base()
	return commaDecimalRegions[base.String()]
}

// LocalizedErrorOffset renders a ParseError's byte offset using the
// process locale's digit grouping, for diagnostics surfaced to a human
// rather than parsed by another program.
func LocalizedErrorOffset(pe *ParseError) string {
	p := message.NewPrinter(currentLocaleTag())
	return p.Sprintf("%d", pe.Offset)
}

// LocalizedErrorSummary is LocalizedErrorOffset wrapped into a one-line
// description of pe, suitable for a log line or CLI error message.
func LocalizedErrorSummary(pe *ParseError) string {
	p := message.NewPrinter(currentLocaleTag())
	return p.Sprintf("%s at byte %s", pe.Kind.String(), LocalizedErrorOffset(pe))
}
