package service

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// phoneRegion is assumed for numbers written without a country code.
const phoneRegion = "IN"

// normalizeMobile returns the number in E.164 form. A nil or blank number is
// returned as nil.
func normalizeMobile(mobile *string) (*string, error) {
	if mobile == nil || strings.TrimSpace(*mobile) == "" {
		return nil, nil
	}
	num, err := libphonenumber.Parse(strings.TrimSpace(*mobile), phoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return nil, invalid("mobile", "phone")
	}
	out := libphonenumber.Format(num, libphonenumber.E164)
	return &out, nil
}

// checkContacts validates the numbers printed on document headers. They are
// kept as entered.
func checkContacts(entries []string) error {
	for _, n := range entries {
		num, err := libphonenumber.Parse(strings.TrimSpace(n), phoneRegion)
		if err != nil || !libphonenumber.IsValidNumber(num) {
			return invalid("mobile", "phone")
		}
	}
	return nil
}
