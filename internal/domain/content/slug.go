package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugRegex      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
)

// MaxSlugLength bounds generated and supplied slugs
const MaxSlugLength = 200

// FoldDiacritics strips combining marks, turning "Điện thoại" into "Dien thoai".
// đ has no decomposition and is mapped by hand.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}

// Slugify builds a URL slug from a title
func Slugify(title string) string {
	s := strings.ToLower(FoldDiacritics(title))
	s = slugSeparators.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxSlugLength {
		s = strings.TrimRight(s[:MaxSlugLength], "-")
	}
	return s
}

// IsValidSlug reports whether s is lower-case words joined by single hyphens
func IsValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugRegex.MatchString(s)
}
