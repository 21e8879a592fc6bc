package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeHexColor converts "#abc", "abc", "#AABBCC" or "aabbcc" to "#aabbcc".
func NormalizeHexColor(color string) (string, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", fmt.Errorf("invalid color %q", color)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", fmt.Errorf("invalid color %q: %w", color, err)
	}
	return "#" + strings.ToLower(hex), nil
}

// ContrastTextColor picks black or white text for a label background,
// using the YIQ brightness formula.
// Example: "#ffff00" -> "#000000", "#3273dc" -> "#ffffff"
func ContrastTextColor(background string) string {
	hex, err := NormalizeHexColor(background)
	if err != nil {
		return "#ffffff"
	}

	rgb, _ := strconv.ParseUint(hex[1:], 16, 32)
	r := (rgb >> 16) & 0xFF
	g := (rgb >> 8) & 0xFF
	b := rgb & 0xFF

	if (r*299+g*587+b*114)/1000 >= 128 {
		return "#000000"
	}
	return "#ffffff"
}
