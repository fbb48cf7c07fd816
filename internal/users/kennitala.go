package users

import (
	"strings"
	"time"
	"unicode"
)

// kennitala checksum weights for the first eight digits.
var kennitalaWeights = [8]int{3, 2, 7, 6, 5, 4, 3, 2}

// ValidKennitala validates an Icelandic kennitala for a person. Both
// "xxxxxx-xxxx" and "xxxxxxxxxx" forms are accepted. Only people born
// this century or the last are considered, which also rejects company
// registry numbers (their day field is offset by 40 and fails the date
// check).
func ValidKennitala(kt string) bool {
	var digits strings.Builder
	for _, r := range kt {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	kt = digits.String()
	if len(kt) != 10 {
		return false
	}

	century := kt[9]
	if century != '0' && century != '9' {
		return false
	}

	year := int(kt[4]-'0')*10 + int(kt[5]-'0')
	if century == '9' {
		year += 1900
	} else {
		year += 2000
	}
	month := int(kt[2]-'0')*10 + int(kt[3]-'0')
	day := int(kt[0]-'0')*10 + int(kt[1]-'0')
	if !validDate(year, month, day) {
		return false
	}

	sum := 0
	for i, w := range kennitalaWeights {
		sum += int(kt[i]-'0') * w
	}
	check := (11 - sum%11) % 11
	return check == int(kt[8]-'0')
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// ValidPassword applies the minimum length rule.
func ValidPassword(pw string) bool { return len(pw) > 5 }
