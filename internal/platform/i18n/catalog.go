// Package i18n provides locale catalogs for actor-facing roster messages.
//
// Rejections and UI labels are keyed by message key (error codes reuse their
// code string). Messages may contain {{.Name}} placeholders filled from
// metadata at format time.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is the base locale; every key must exist in its catalog.
const DefaultLocale = "en-US"

// Catalog holds the messages for one locale.
type Catalog struct {
	tag      language.Tag
	messages map[string]string
	numerals func(int) string
}

var catalogs = []*Catalog{enUSCatalog, zhTWCatalog}

var matcher = language.NewMatcher(supportedTags())

func supportedTags() []language.Tag {
	tags := make([]language.Tag, len(catalogs))
	for i, c := range catalogs {
		tags[i] = c.tag
	}
	return tags
}

// Match returns the catalog best matching the given locale string.
// Unknown or empty locales fall back to the default catalog.
func Match(locale string) *Catalog {
	if strings.TrimSpace(locale) == "" {
		return enUSCatalog
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return enUSCatalog
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return enUSCatalog
	}
	return catalogs[index]
}

// Locale returns the catalog's canonical locale string.
func (c *Catalog) Locale() string {
	return c.tag.String()
}

// Format renders the message for key, substituting {{.Name}} placeholders
// from metadata. Keys missing from the catalog fall back to the default
// catalog; keys missing everywhere render as the key itself.
func (c *Catalog) Format(key string, metadata map[string]string) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = enUSCatalog.messages[key]
	}
	if !ok {
		return key
	}
	for name, value := range metadata {
		msg = strings.ReplaceAll(msg, "{{."+name+"}}", value)
	}
	return msg
}

// Ordinal renders a 1-based group index the way the locale displays it.
func (c *Catalog) Ordinal(n int) string {
	return c.numerals(n)
}
