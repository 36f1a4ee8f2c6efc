package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"propshoot/pkg/model"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reNotAlnum   = regexp.MustCompile(`[^0-9A-Za-z]+`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// TrimAndNormalize trims s and collapses every run of whitespace to one space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return b.String()
}

func SanitizeName(s string) string {
	return TrimAndNormalize(s)
}

func SanitizeAddress(s string) string {
	return Pipeline{
		TrimAndNormalize,
		func(s string) string { return strings.Trim(s, ",") },
		strings.TrimSpace,
	}.Apply(s)
}

// SanitizeNotes keeps line breaks but trims the surrounding whitespace.
func SanitizeNotes(s string) string {
	return strings.TrimSpace(s)
}

func SanitizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SanitizePostcode renders a UK postcode as "OUTWARD INWARD", e.g. "SW1A 1AA".
func SanitizePostcode(s string) string {
	compact := strings.ToUpper(reWhitespace.ReplaceAllString(s, ""))
	if len(compact) <= 3 {
		return compact
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// SanitizeDiscountCode upper cases a code and drops everything but letters and digits.
func SanitizeDiscountCode(s string) string {
	return Pipeline{
		strings.TrimSpace,
		func(s string) string { return reNotAlnum.ReplaceAllString(s, "") },
		strings.ToUpper,
	}.Apply(s)
}

func SanitizeAgent(a *model.Agent) {
	a.Name = SanitizeName(a.Name)
	a.Company = SanitizeName(a.Company)
	a.Email = SanitizeEmail(a.Email)
	a.Phone = SanitizePhone(a.Phone)
}

func SanitizePropertyOrder(p *model.PropertyOrder) {
	p.Address = SanitizeAddress(p.Address)
	p.Postcode = SanitizePostcode(p.Postcode)
	p.Notes = SanitizeNotes(p.Notes)
	p.Date = strings.TrimSpace(p.Date)
	p.StartTime = strings.TrimSpace(p.StartTime)
}

func SanitizeOrder(o *model.Order) {
	SanitizeAgent(&o.Agent)
	for i := range o.Properties {
		SanitizePropertyOrder(&o.Properties[i])
	}
	o.DiscountCode = SanitizeDiscountCode(o.DiscountCode)
}
