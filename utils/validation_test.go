package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ada@example.com"))
	assert.False(t, ValidateEmail("ada@example"))
	assert.False(t, ValidateEmail("ada example.com"))
}

func TestValidateURL(t *testing.T) {
	assert.True(t, ValidateURL("https://meet.google.com/abc"))
	assert.False(t, ValidateURL("meet.google.com/abc"))
	assert.False(t, ValidateURL(""))
}

func TestValidateSkillRate(t *testing.T) {
	assert.True(t, ValidateSkillRate(0.1))
	assert.True(t, ValidateSkillRate(1000))
	assert.False(t, ValidateSkillRate(0))
	assert.False(t, ValidateSkillRate(1000.5))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello \n"))
	assert.Len(t, SanitizeInput(strings.Repeat("x", 600)), 500)
}

func TestValidateSearchQuery(t *testing.T) {
	assert.True(t, ValidateSearchQuery("rust"))
	assert.False(t, ValidateSearchQuery("   "))
	assert.False(t, ValidateSearchQuery(strings.Repeat("q", 101)))
}
