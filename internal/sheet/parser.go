package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber converts a locale-formatted spreadsheet cell into a float.
// It accepts percent signs, currency prefixes ("$", "R$", "€"), spaces, and
// either comma or point as the decimal separator. When both appear, the
// comma is treated as a thousands separator.
func ParseNumber(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return 0, fmt.Errorf("no digits in cell %q", cell)
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// "1.234,56": dots group thousands, the comma is the decimal mark.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// "1,234.56": commas group thousands.
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cell %q: %w", cell, err)
	}
	return v, nil
}
