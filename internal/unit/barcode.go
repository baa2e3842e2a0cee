package unit

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
)

var ean13Pattern = regexp.MustCompile(`^\d{13}$`)

// InternalIDFromUUID derives the 13 digit EAN-13 internal id of a unit: the
// first twelve decimal digits of the hex uuid followed by the check digit.
func InternalIDFromUUID(hexUUID string) (string, error) {
	value, ok := new(big.Int).SetString(hexUUID, 16)
	if !ok {
		return "", fmt.Errorf("uuid %q is not hexadecimal", hexUUID)
	}
	digits := value.String()
	if len(digits) < 12 {
		return "", fmt.Errorf("uuid %q is too short for an internal id", hexUUID)
	}
	base := digits[:12]
	return base + strconv.Itoa(EAN13CheckDigit(base)), nil
}

// EAN13CheckDigit computes the check digit for a 12 digit payload.
func EAN13CheckDigit(payload string) int {
	sum := 0
	for i, r := range payload {
		digit := int(r - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return (10 - sum%10) % 10
}

// IsEAN13 reports whether a scanner string looks like a unit barcode.
func IsEAN13(value string) bool {
	return ean13Pattern.MatchString(value)
}
