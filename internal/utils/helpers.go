package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// ParseDate parses a date string in the formats clients commonly send
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02 15:04:05",
		"02/01/2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// Slugify converts a string to a URL-friendly slug
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// TruncateString truncates a string to the given length with ellipsis
func TruncateString(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return text[:maxLength]
	}
	return text[:maxLength-3] + "..."
}

// RoundToDecimalPlaces rounds a float to the given number of decimal places
func RoundToDecimalPlaces(value float64, places int) float64 {
	multiplier := math.Pow(10, float64(places))
	return math.Round(value*multiplier) / multiplier
}

// SafeStringPointer converts a string to *string, with nil for empty
func SafeStringPointer(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
