package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// ValidAreaCode reports whether s is a well-formed JMA area code: exactly
// six ASCII digits. Width variants (full-width digits) are not valid.
func ValidAreaCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// normalizeQuery prepares a search string: trim, fold width variants
// (full-width ASCII, half-width katakana), lower-case.
func normalizeQuery(s string) string {
	return strings.ToLower(width.Fold.String(strings.TrimSpace(s)))
}

// hiraganaToKatakana shifts hiragana runes into the katakana block so the
// two syllabaries compare equal. Everything else passes through.
func hiraganaToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ぁ' && r <= 'ゖ' {
			return r + 0x60
		}
		return r
	}, s)
}

// matchesArea reports whether a normalized query hits one directory entry:
// substring on native name, kana reading, or English name, then a katakana
// folding of both sides of name and kana.
func matchesArea(query string, area AreaInfo) bool {
	if strings.Contains(strings.ToLower(area.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(area.Kana), query) {
		return true
	}
	if strings.Contains(strings.ToLower(area.EnName), query) {
		return true
	}
	qk := hiraganaToKatakana(query)
	if strings.Contains(hiraganaToKatakana(area.Name), qk) {
		return true
	}
	return strings.Contains(hiraganaToKatakana(area.Kana), qk)
}

// SearchAreas returns the directory entries matching query, best first:
// exact native-name matches, then shorter names, then lexicographic, with
// the code as a final tie-break for determinism.
func SearchAreas(dir map[string]AreaInfo, query string) []AreaInfo {
	q := normalizeQuery(query)
	if q == "" {
		return nil
	}

	var matches []AreaInfo
	for _, area := range dir {
		if matchesArea(q, area) {
			matches = append(matches, area)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		mi, mj := matches[i], matches[j]
		exactI := strings.ToLower(mi.Name) == q
		exactJ := strings.ToLower(mj.Name) == q
		if exactI != exactJ {
			return exactI
		}
		li := utf8.RuneCountInString(mi.Name)
		lj := utf8.RuneCountInString(mj.Name)
		if li != lj {
			return li < lj
		}
		if mi.Name != mj.Name {
			return mi.Name < mj.Name
		}
		return mi.Code < mj.Code
	})
	return matches
}

// ResolveAreaTarget maps loose caller input, an area code or a free-text
// name in any script, onto a registered area code. A registered code passes
// through unchanged; anything else resolves to the top search hit.
func ResolveAreaTarget(dir map[string]AreaInfo, input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("empty area query: %w", ErrInvalidAreaCode)
	}

	if ValidAreaCode(trimmed) {
		if _, ok := dir[trimmed]; ok {
			return trimmed, nil
		}
	}

	matches := SearchAreas(dir, trimmed)
	if len(matches) == 0 {
		return "", fmt.Errorf("no area matches %q: %w", input, ErrNotFound)
	}
	return matches[0].Code, nil
}
