package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyRulesDefaults(t *testing.T) {
	cfg := Config{OpenHour: 8, CloseHour: 23}
	rules, err := cfg.PolicyRules()
	require.NoError(t, err)
	assert.Equal(t, 8, rules.OpenHour)
	assert.Equal(t, 23, rules.CloseHour)
	assert.Nil(t, rules.ClosedWeekday)
}

func TestPolicyRulesClosedWeekday(t *testing.T) {
	cfg := Config{OpenHour: 8, CloseHour: 23, ClosedWeekday: "Saturday"}
	rules, err := cfg.PolicyRules()
	require.NoError(t, err)
	require.NotNil(t, rules.ClosedWeekday)
	assert.Equal(t, time.Saturday, *rules.ClosedWeekday)

	// Case does not matter; surrounding space is ignored.
	cfg.ClosedWeekday = "  monday "
	rules, err = cfg.PolicyRules()
	require.NoError(t, err)
	require.NotNil(t, rules.ClosedWeekday)
	assert.Equal(t, time.Monday, *rules.ClosedWeekday)
}

func TestPolicyRulesRejectsUnknownWeekday(t *testing.T) {
	cfg := Config{OpenHour: 8, CloseHour: 23, ClosedWeekday: "Caturday"}
	_, err := cfg.PolicyRules()
	assert.Error(t, err)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	// TTL is raised so bucket state outlives several refills.
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "42")
	t.Setenv("X_DUR", "90s")

	assert.True(t, envBool("X_BOOL", false))
	assert.False(t, envBool("X_MISSING", false))
	assert.Equal(t, 42, envInt("X_INT", 7))
	assert.Equal(t, 7, envInt("X_MISSING", 7))
	assert.Equal(t, 90*time.Second, envDur("X_DUR", time.Second))
	assert.Equal(t, time.Second, envDur("X_MISSING", time.Second))
}
