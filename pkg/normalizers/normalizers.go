// Package normalizers provides canonical key derivation and field normalization
package normalizers

import (
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("nphone", NormalizePhone)
	Register("nemail", NormalizeEmail)
	Register("nname", NormalizeName)
	Register("canonical", CanonicalKey)
	Register("family_key", FamilyKey)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizePhone removes all non-digit characters from a phone number
func NormalizePhone(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeEmail normalizes an email address (lowercase, trim)
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeName normalizes a person's name for comparison
// - Lowercase
// - Collapse whitespace
// - Remove punctuation
func NormalizeName(s string) string {
	s = strings.ToLower(s)

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			prevSpace = false
		} else if unicode.IsSpace(r) {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// CanonicalKey derives the dedup key for competitions, events and shoots.
// Lowercase with all whitespace, punctuation and separators stripped, so
// "Cactus Classic 2025", "cactus-classic-2025" and "Cactus_Classic_2025"
// all resolve to the same key.
func CanonicalKey(s string) string {
	var result strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// FamilyKey derives a family id from a surname. Lowercase, spaces become
// underscores, apostrophes are dropped: "O'Brien" -> "obrien",
// "Van Der Berg" -> "van_der_berg".
func FamilyKey(lastName string) string {
	s := strings.ToLower(strings.TrimSpace(lastName))
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")

	var result strings.Builder
	prevSep := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevSep = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !prevSep && result.Len() > 0 {
				result.WriteRune('_')
				prevSep = true
			}
		}
	}
	return strings.TrimSuffix(result.String(), "_")
}

// SkaterKey derives a skater id from a parsed name.
func SkaterKey(firstName, lastName string) string {
	first := CanonicalKey(firstName)
	last := FamilyKey(lastName)
	if first == "" {
		return last
	}
	return first + "_" + last
}
