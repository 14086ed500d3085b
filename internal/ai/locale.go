package ai

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// NormalizeLocale reduces an Accept-Language header to the base language of its
// preferred tag ("vi-VN,vi;q=0.9" -> "vi"). Empty or unparsable headers are English.
func NormalizeLocale(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return models.DefaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return models.DefaultLocale
	}

	base, _ := tags[0].Base()
	if base.String() == "und" {
		return models.DefaultLocale
	}
	return base.String()
}

// languageName is the English display name of a locale, or "" when unknown.
func languageName(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}
