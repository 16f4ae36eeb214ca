package flow

import (
	"fmt"
	"strings"
)

// FormatRupiah renders a value as "Rp1.234.567" with dot thousand separators,
// matching how the reporting side displays catalog values.
func FormatRupiah(value float64) string {
	whole := int64(value + 0.5)
	sign := ""
	if whole < 0 {
		sign = "-"
		whole = -whole
	}

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return sign + "Rp" + strings.Join(groups, ".")
}
