package validators

import "strings"

// NormalizePhone mantém só os dígitos; devolve "" fora de 10..13 dígitos.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) < 10 || len(digits) > 13 {
		return ""
	}
	return digits
}
