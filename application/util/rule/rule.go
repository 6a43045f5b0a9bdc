package rule

func IsAlpha(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

// IsCTL reports whether c is a control byte (including DEL).
func IsCTL(c byte) bool { return c < SP || c == DEL }

// IsSchemeChar reports whether c may appear after the first byte of a scheme.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.1
func IsSchemeChar(c byte) bool {
	if IsAlpha(c) || IsDigit(c) {
		return true
	}
	return c == '+' || c == '-' || c == '.'
}

// IsAllDigits reports whether s is a non-empty run of DIGIT.
func IsAllDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			return false
		}
	}
	return true
}
