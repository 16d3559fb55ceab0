package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// fallbackRegions are tried after the caller's region for numbers written
// without a country code.
var fallbackRegions = []string{
	"ID",
	"US",
}

// NormalizePhone formats phone as E.164. Numbers without a country code are
// read as local numbers of region. Unparseable input returns "".
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	regions := fallbackRegions
	if region != "" {
		regions = append([]string{strings.ToUpper(region)}, fallbackRegions...)
	}

	for _, r := range regions {
		parsedNumber, err := phonenumbers.Parse(phone, r)
		if err == nil {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}
