package matcher

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Threshold is the minimum similarity for two names to be the same project.
const Threshold = 0.85

// Normalize lowercases s and removes '-', '_' and spaces.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case '-', '_', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Distance returns the Levenshtein edit distance between a and b, counting
// insertions, deletions and substitutions of runes with cost 1.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Similarity returns a score in [0, 1] for how alike two names are after
// normalization. Two empty names are identical; callers must not compare
// blank names.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	longest := max(len([]rune(na)), len([]rune(nb)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(Distance(na, nb))/float64(longest)
}

// IsMatch reports whether two names are close enough to be the same project.
func IsMatch(a, b string) bool {
	return Similarity(a, b) >= Threshold
}

// SpaceWords turns a machine identifier into a searchable phrase:
// "MyCoolMod" and "my-cool_mod" become "My Cool Mod" and "my cool mod".
func SpaceWords(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i, r := range runes {
		if r == '-' || r == '_' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) && (isLowerAt(runes, i-1) || isLowerAt(runes, i+1)) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isLowerAt(runes []rune, i int) bool {
	return i >= 0 && i < len(runes) && unicode.IsLower(runes[i])
}
