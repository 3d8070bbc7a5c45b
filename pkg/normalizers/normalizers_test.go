package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	t.Run("separator and case variants collapse to one key", func(t *testing.T) {
		variants := []string{
			"Cactus Classic 2025",
			"cactus classic 2025",
			"Cactus-Classic-2025",
			"cactus_classic_2025",
			"  Cactus  Classic 2025 ",
		}
		for _, v := range variants {
			assert.Equal(t, "cactusclassic2025", CanonicalKey(v), "input %q", v)
		}
	})

	t.Run("distinct names stay distinct", func(t *testing.T) {
		assert.NotEqual(t, CanonicalKey("Cactus Classic 2025"), CanonicalKey("Cactus Classic 2024"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", CanonicalKey("  - _ "))
	})
}

func TestFamilyKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain surname", "Yang", "yang"},
		{"apostrophe dropped", "O'Brien", "obrien"},
		{"curly apostrophe dropped", "O’Brien", "obrien"},
		{"multi-word surname", "Van Der Berg", "van_der_berg"},
		{"hyphenated surname", "Smith-Jones", "smith_jones"},
		{"repeated separators collapse", "Van  Der--Berg", "van_der_berg"},
		{"trailing separator trimmed", "Berg ", "berg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FamilyKey(tt.input))
		})
	}
}

func TestSkaterKey(t *testing.T) {
	assert.Equal(t, "amy_yang", SkaterKey("Amy", "Yang"))
	assert.Equal(t, "mary_van_der_berg", SkaterKey("Mary", "Van Der Berg"))
	assert.Equal(t, "team_griffongliders", SkaterKey("Team", "GriffonGliders"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "15551234567", NormalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestApply(t *testing.T) {
	assert.Equal(t, "abc", Apply(" ABC ", "nemail"))
	// unknown normalizer passes the value through
	assert.Equal(t, "ABC", Apply("ABC", "nope"))
}
