package view

import (
	"math"
	"strconv"
	"strings"
)

// FormatSalary renders a numeric salary as whole dollars with thousands
// separators, e.g. "90000" becomes "$90,000". Values that are not numbers
// render as "$0".
func FormatSalary(salary string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(salary), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}

	f = math.Round(f)

	sign := ""
	if f < 0 {
		sign = "-"
	}

	// Salaries may exceed the int64 range.
	digits := strconv.FormatFloat(math.Abs(f), 'f', 0, 64)

	var b strings.Builder
	b.WriteString("$")
	b.WriteString(sign)

	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	return b.String()
}

// SplitTags splits a comma separated tag list, dropping blanks.
func SplitTags(tags string) []string {
	var out []string

	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}

	return out
}
