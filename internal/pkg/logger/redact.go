package logger

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// RedactEmail keeps the first two characters of the local part and the
// domain: "john.doe@example.com" becomes "jo***@example.com". Local parts
// of two characters or fewer are masked entirely.
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "***@***"
	}
	local, dom := email[:at], email[at+1:]
	if len(local) > 2 {
		return local[:2] + "***@" + dom
	}
	return "***@" + dom
}

// RedactPhone keeps only the last two digits of a phone number.
func RedactPhone(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 2 {
		return "***"
	}
	return "***" + string(digits[len(digits)-2:])
}

// redactPIIValue masks email addresses logged under email keys, phone
// numbers logged under phone keys, and any email address embedded in other
// values. Keys match as "email" or "<prefix>_email" (likewise for phone);
// counters such as skipped_duplicate_email carry no "@" and pass through.
func redactPIIValue(key, val string) string {
	key = strings.ToLower(key)
	switch {
	case piiKey(key, "email") && strings.Contains(val, "@"):
		return RedactEmail(val)
	case piiKey(key, "phone"):
		return RedactPhone(val)
	}
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}

func piiKey(key, name string) bool {
	return key == name || strings.HasSuffix(key, "_"+name)
}
