package export

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Locale holds the presentation rules used when rendering cells for humans.
type Locale struct {
	Tag               language.Tag
	DecimalSeparator  string
	ThousandSeparator string
	CurrencySymbol    string
	DateLayout        string
	DateTimeLayout    string
	Location          *time.Location
}

// LocaleOption customizes a Locale preset.
type LocaleOption func(*Locale)

func WithCurrencySymbol(symbol string) LocaleOption {
	return func(l *Locale) { l.CurrencySymbol = symbol }
}

func WithSeparators(decimal, thousand string) LocaleOption {
	return func(l *Locale) {
		l.DecimalSeparator = decimal
		l.ThousandSeparator = thousand
	}
}

func WithDateLayouts(date, dateTime string) LocaleOption {
	return func(l *Locale) {
		l.DateLayout = date
		l.DateTimeLayout = dateTime
	}
}

// WithLocation renders dates in loc. Date-only strings are parsed as UTC
// midnight, so a location west of UTC shifts them to the previous day.
func WithLocation(loc *time.Location) LocaleOption {
	return func(l *Locale) {
		if loc != nil {
			l.Location = loc
		}
	}
}

var localePresets = []Locale{
	{
		Tag:               language.BrazilianPortuguese,
		DecimalSeparator:  ",",
		ThousandSeparator: ".",
		CurrencySymbol:    "R$",
		DateLayout:        "02/01/2006",
		DateTimeLayout:    "02/01/2006 15:04:05",
		Location:          time.UTC,
	},
	{
		Tag:               language.AmericanEnglish,
		DecimalSeparator:  ".",
		ThousandSeparator: ",",
		CurrencySymbol:    "$",
		DateLayout:        "01/02/2006",
		DateTimeLayout:    "01/02/2006 15:04:05",
		Location:          time.UTC,
	},
}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
})

// DefaultLocale is pt-BR.
func DefaultLocale() Locale {
	return localePresets[0]
}

// NewLocale picks the closest preset for tag and applies opts.
// An empty tag selects pt-BR.
func NewLocale(tag string, opts ...LocaleOption) (Locale, error) {
	loc := DefaultLocale()
	if tag != "" {
		parsed, err := language.Parse(tag)
		if err != nil {
			return Locale{}, fmt.Errorf("invalid locale %q: %w", tag, err)
		}
		_, idx, confidence := localeMatcher.Match(parsed)
		if confidence == language.No {
			return Locale{}, fmt.Errorf("unsupported locale %q", tag)
		}
		loc = localePresets[idx]
	}
	for _, opt := range opts {
		opt(&loc)
	}
	return loc, nil
}
