// Package i18n holds the locales a ticket can be submitted in and the
// user-facing strings produced by the intake pipeline.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang represents a supported language
type Lang string

const (
	ES Lang = "es"
	EN Lang = "en"

	Default = ES
)

// supported is ordered so that the first entry is the matcher's fallback.
var supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(supported)

// ParseLang maps a client-supplied selector ("en", "en-US", "ES") onto a
// supported language. Empty, malformed or unsupported selectors yield Default.
func ParseLang(s string) Lang {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	base, _ := supported[idx].Base()
	return Lang(base.String())
}

func (l Lang) String() string {
	return string(l)
}

func (l Lang) IsValid() bool {
	return l == ES || l == EN
}
