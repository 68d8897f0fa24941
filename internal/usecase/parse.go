package usecase

import (
	"regexp"
	"strconv"
)

// Package-level compiled regex patterns for performance
var (
	priceRegex  = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)
	numberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)
	digitsRegex = regexp.MustCompile(`\d+`)
)

// ParsePrice scans text for the first dollar-denominated price, e.g. "$3.99".
// Returns false when no price pattern is present.
func ParsePrice(text string) (float64, bool) {
	match := priceRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// ParseAmount extracts the first numeric substring from text, with or without
// a decimal part. Used for model replies like "around 4.50 dollars".
func ParseAmount(text string) (float64, bool) {
	match := numberRegex.FindString(text)
	if match == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// ParseCalories extracts the first run of digits from text as an integer.
func ParseCalories(text string) (int, bool) {
	match := digitsRegex.FindString(text)
	if match == "" {
		return 0, false
	}
	calories, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return calories, true
}
