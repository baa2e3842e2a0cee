package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{language.English, language.Russian}

// Translator renders messages in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
	title   cases.Caser
}

// New builds a translator for lang ("en", "ru", or any BCP 47 tag whose base
// matches one of them).
func New(lang string) (*Translator, error) {
	tag, err := resolve(lang)
	if err != nil {
		return nil, err
	}
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, patterns := range entries {
		for i, t := range supported {
			if err := builder.SetString(t, string(key), patterns[i]); err != nil {
				return nil, fmt.Errorf("register %s message %s: %w", t, key, err)
			}
		}
	}
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		title:   cases.Title(tag),
	}, nil
}

func resolve(lang string) (language.Tag, error) {
	value := strings.ToLower(strings.TrimSpace(lang))
	switch value {
	case "", "en", "eng", "english":
		return language.English, nil
	case "ru", "rus", "russian":
		return language.Russian, nil
	}
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Und, fmt.Errorf("parse language %q: %w", lang, err)
	}
	base, _ := parsed.Base()
	for _, t := range supported {
		if b, _ := t.Base(); b == base {
			return t, nil
		}
	}
	return language.Und, fmt.Errorf("language %q is not supported", lang)
}

// Tag reports the language messages are rendered in.
func (t *Translator) Tag() language.Tag { return t.tag }

// T renders key with args.
func (t *Translator) T(key Key, args ...any) string {
	fallback := string(key)
	if patterns, ok := entries[key]; ok {
		fallback = patterns[0]
	}
	return t.printer.Sprintf(message.Key(string(key), fallback), args...)
}

// Title capitalizes words the way the station language expects, used for
// operator positions and names on screen.
func (t *Translator) Title(s string) string {
	return t.title.String(s)
}
