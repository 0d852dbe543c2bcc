package phone

import "strings"

// DefaultCountryPrefix is the national dialing prefix assumed for bare
// 10-digit numbers when no prefix is configured.
const DefaultCountryPrefix = "91"

// Digits strips every non-digit character from raw.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Variants canonicalizes a raw phone string into the plausible stored forms:
// with and without the country prefix, with and without a leading "+".
// The result is deduplicated and order-stable. An input with no digits
// yields a single empty string; callers must treat that as "no match
// possible" rather than attempt a lookup.
func Variants(raw, countryPrefix string) []string {
	if countryPrefix == "" {
		countryPrefix = DefaultCountryPrefix
	}
	digits := Digits(raw)

	candidates := []string{digits, "+" + digits}
	if strings.HasPrefix(digits, countryPrefix) && len(digits) > 10 {
		candidates = append(candidates, strings.TrimPrefix(digits, countryPrefix))
	} else if !strings.HasPrefix(digits, countryPrefix) && len(digits) == 10 {
		candidates = append(candidates, countryPrefix+digits, "+"+countryPrefix+digits)
	}
	if digits == "" {
		return []string{""}
	}

	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
