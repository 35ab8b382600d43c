// Package sizefmt parses and formats human-readable byte sizes such as
// "500KB" or "1.5MB". Units are powers of 1024.
package sizefmt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse indicates a size string that does not match the accepted grammar
// or resolves to a non-positive byte count. It is a user-input error.
var ErrParse = errors.New("sizefmt: unable to parse size")

var sizePattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)([KMG]?B)?$`)

var multipliers = map[string]int64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
}

// Parse converts a human-readable size string to bytes.
//
//	"500KB" -> 512000
//	"0.5MB" -> 524288
//	"100"   -> 100
func Parse(s string) (int64, error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}

	unit := strings.ToUpper(m[2])
	if unit == "" {
		unit = "B"
	}

	bytes := int64(value * float64(multipliers[unit]))
	if bytes <= 0 {
		return 0, fmt.Errorf("%w: size must be positive", ErrParse)
	}
	return bytes, nil
}

// Format renders a byte count in the largest unit that keeps the value
// above one, with two decimal places.
func Format(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	magnitude := int(math.Log(float64(bytes)) / math.Log(1024))
	if magnitude > len(units)-1 {
		magnitude = len(units) - 1
	}

	value := float64(bytes) / math.Pow(1024, float64(magnitude))
	return fmt.Sprintf("%.2f %s", value, units[magnitude])
}
