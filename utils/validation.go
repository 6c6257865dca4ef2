// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var msisdnPattern = regexp.MustCompile(`^254[17]\d{8}$`)

// NormalizeMSISDN converts the phone formats customers actually type
// (07XXXXXXXX, 01XXXXXXXX, +2547XXXXXXXX, 2547XXXXXXXX) into the bare
// 254XXXXXXXXX form Daraja requires. Returns "" when the number cannot be
// a Kenyan mobile number.
func NormalizeMSISDN(phone string) string {
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.TrimPrefix(cleaned, "+")

	if strings.HasPrefix(cleaned, "0") && len(cleaned) == 10 {
		cleaned = "254" + cleaned[1:]
	}

	if !msisdnPattern.MatchString(cleaned) {
		return ""
	}
	return cleaned
}

// ValidatePhone accepts the local 07XX/01XX forms customers type as well as
// international E.164 numbers.
func ValidatePhone(phone string) bool {
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")

	if NormalizeMSISDN(cleaned) != "" {
		return true
	}

	regex := `^\+?[1-9]\d{6,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}
