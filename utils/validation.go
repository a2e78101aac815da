package utils

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	config "github.com/anjiri1684/skill_swap/configs"
)

const (
	maxInputLength       = 500
	maxSearchQueryLength = 100
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func ValidateSkillRate(rate float64) bool {
	return rate >= config.MinSkillRate && rate <= config.MaxSkillRate
}

// SanitizeInput trims surrounding space and caps the text at 500 characters.
func SanitizeInput(input string) string {
	s := strings.TrimSpace(input)
	if utf8.RuneCountInString(s) <= maxInputLength {
		return s
	}
	return string([]rune(s)[:maxInputLength])
}

func ValidateSearchQuery(query string) bool {
	return strings.TrimSpace(query) != "" && utf8.RuneCountInString(query) <= maxSearchQueryLength
}
