package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("LISTING_FEE_ALGO", "0.5")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", s.AppEnv)
	assert.True(t, s.IsDevelopment())
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, uint64(4), s.ConfirmRounds)
	assert.Equal(t, 0.5, s.ListingFeeAlgo)
	assert.Equal(t, "@every 1m", s.ReconcileSchedule)
}

func TestLoadJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	t.Setenv("APP_ENV", "production")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "change-me")
	_, err = Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "s3cret")
	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", s.JWTSecret)

	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "development")
	s, err = Load()
	require.NoError(t, err)
	assert.NotEmpty(t, s.JWTSecret)
}

func TestNormalizeEnv(t *testing.T) {
	assert.Equal(t, "production", normalizeEnv(""))
	assert.Equal(t, "production", normalizeEnv(" PROD "))
	assert.Equal(t, "test", normalizeEnv("testing"))
	assert.Equal(t, "staging", normalizeEnv("Staging"))
}

func TestSetupLoggerLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetupLogger(&Settings{LogLevel: "debug"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogger(&Settings{LogLevel: "bogus"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSkillLookups(t *testing.T) {
	assert.True(t, IsSkillCategory("Music"))
	assert.False(t, IsSkillCategory("music"))
	assert.True(t, IsSkillLevel("Advanced"))
	assert.False(t, IsSkillLevel("Expert"))
}
