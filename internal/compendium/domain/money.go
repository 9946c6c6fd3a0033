package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCost converts a rulebook price literal to its gold equivalent.
// Accepted forms are a decimal number followed by a unit: "GM" (gold),
// "SM" (silver, one-tenth gold) or "KM" (copper, one-hundredth gold).
// The decimal separator may be a comma. A bare number is taken as gold.
// Empty and "-" literals mean free.
func ParseCost(literal string) (float64, error) {
	s := strings.TrimSpace(literal)
	if s == "" || s == "-" || s == "—" {
		return 0, nil
	}

	factor := 1.0
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "GM"):
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "SM"):
		s = s[:len(s)-2]
		factor = 0.1
	case strings.HasSuffix(upper, "KM"):
		s = s[:len(s)-2]
		factor = 0.01
	}

	value, err := parseDecimal(s)
	if err != nil {
		return 0, fmt.Errorf("parse cost %q: %w", literal, err)
	}
	return value * factor, nil
}

// ParseWeight converts a weight literal such as "0,5 kg" to kilograms.
// Empty and "-" literals mean weightless.
func ParseWeight(literal string) (float64, error) {
	s := strings.TrimSpace(literal)
	if s == "" || s == "-" || s == "—" {
		return 0, nil
	}
	s = strings.TrimSuffix(strings.ToLower(s), "kg")

	value, err := parseDecimal(s)
	if err != nil {
		return 0, fmt.Errorf("parse weight %q: %w", literal, err)
	}
	return value, nil
}

func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	// Thousands separators show up as "1.000" in source material; a second
	// dot means the first one was a grouping mark.
	if strings.Count(s, ".") > 1 {
		idx := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:idx], ".", "") + s[idx:]
	}
	return strconv.ParseFloat(s, 64)
}
