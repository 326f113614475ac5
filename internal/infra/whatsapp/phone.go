package whatsapp

import "strings"

const (
	countryCode   = "62"
	routingSuffix = "@s.whatsapp.net"
)

// NormalizePhone strips every non-digit and rewrites a local "0"-prefixed national
// number to the country-code form: "0812-3456-7890" -> "6281234567890".
// It returns "" when no digits remain.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") {
		digits = countryCode + strings.TrimLeft(digits, "0")
	}
	if digits == countryCode {
		return ""
	}
	return digits
}

// JID is the provider's routing address for a phone number.
func JID(phone string) string {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return ""
	}
	return normalized + routingSuffix
}

// SamePhone reports whether two stored phone numbers route to the same WhatsApp account.
func SamePhone(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}
