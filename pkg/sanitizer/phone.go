package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneNumber marks a struct field as a phone number so that TypeOf infers
// the phoneNumber token for it.
type PhoneNumber string

const phoneRegion = "RU"

var (
	phoneSeparators = strings.NewReplacer(" ", "", "+", "", "(", "", ")", "", "-", "")
	reLocalPhone    = regexp.MustCompile(`^[78][1-9][0-9]{9}$`)
	reE164Local     = regexp.MustCompile(`^\+7[1-9][0-9]{9}$`)
)

// NormalizePhone strips separators and rewrites a local number that starts
// with 7 or 8 into +7XXXXXXXXXX form. It returns "" when the input is not a
// local number.
func NormalizePhone(phone string) string {
	digits := phoneSeparators.Replace(phone)
	if !reLocalPhone.MatchString(digits) {
		return ""
	}

	parsed, err := phonenumbers.Parse("+7"+digits[1:], phoneRegion)
	if err != nil {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// IsRegionalPhone reports whether phone is normalized and assigned to a
// Russian range. NormalizePhone only checks the shape, so a Kazakh +77 number
// normalizes but is not regional.
func IsRegionalPhone(phone string) bool {
	if !IsNormalizedPhone(phone) {
		return false
	}
	parsed, err := phonenumbers.Parse(phone, phoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(parsed, phoneRegion)
}

// IsNormalizedPhone reports whether phone is already in the form
// NormalizePhone produces.
func IsNormalizedPhone(phone string) bool {
	return reE164Local.MatchString(phone)
}

func phoneValue(v any) any {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case PhoneNumber:
		s = string(t)
	case bool:
		return nil
	default:
		str, ok := scalarString(v)
		if !ok {
			return nil
		}
		s = str
	}

	if normalized := NormalizePhone(s); normalized != "" {
		return normalized
	}
	return nil
}
