package app

import (
	"net/url"
	"regexp"
	"strings"
)

// Field normalizers for raw OSM tag values. All of them swallow malformed
// input and return "" instead of failing.

var (
	trailingParens   = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	trailingBrackets = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)
)

// NormalizePhone keeps digits and a leading +, rewrites a 00 prefix to +,
// and prepends defaultCC (e.g. "+91") when the number is a bare 10-digit
// local number.
func NormalizePhone(raw, defaultCC string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == '+' && b.Len() == 0 {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if strings.HasPrefix(cleaned, "00") {
		cleaned = "+" + cleaned[2:]
	}
	if len(cleaned) == 10 && !strings.HasPrefix(cleaned, "+") {
		cleaned = defaultCC + cleaned
	}
	return cleaned
}

// NormalizeWebsite turns a bare domain into an https URL and rejects values
// that do not parse to a URL with both scheme and host.
func NormalizeWebsite(raw string) string {
	website := strings.TrimSpace(raw)
	if len(website) < 4 || strings.Contains(website, " ") {
		return ""
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(website)
}

// CleanBusinessName collapses whitespace, strips one trailing parenthesized
// or bracketed suffix, and drops quote characters.
func CleanBusinessName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return ""
	}
	name = trailingParens.ReplaceAllString(name, "")
	name = trailingBrackets.ReplaceAllString(name, "")
	name = strings.NewReplacer(`"`, "", `'`, "").Replace(name)
	return strings.TrimSpace(name)
}
