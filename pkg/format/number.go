// Package format renders STRAC values for people to read.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/strac/pkg/strac"
)

// Number returns a value at one decimal with thousands separators (e.g., "-1,234.5").
func Number(value float64) string {
	sign := ""
	formatted := formatPositive(math.Abs(value))
	if value < 0 && formatted != "0.0" {
		sign = "-"
	}
	return sign + formatted
}

// Percent returns a defined ratio as a percentage (e.g., "12.5%") or "undefined".
func Percent(r strac.Ratio) string {
	if !r.Defined {
		return r.String()
	}
	return Number(r.Value) + "%"
}

// Ratio returns a defined ratio as a plain number or "undefined".
func Ratio(r strac.Ratio) string {
	if !r.Defined {
		return r.String()
	}
	return Number(r.Value)
}

func formatPositive(value float64) string {
	formatted := fmt.Sprintf("%.1f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "0"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
