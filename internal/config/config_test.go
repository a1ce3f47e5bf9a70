package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			assert.Equal(t, tt.expected, mustDuration(tt.key, tt.def))
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "0", def: true, expected: false},
		{name: "invalid uses default", key: "TEST_BOOL_INVALID", value: "maybe", def: true, expected: true},
		{name: "missing uses default", key: "TEST_BOOL_MISSING", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			assert.Equal(t, tt.expected, mustBool(tt.key, tt.def))
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_INVALID", "forty-two")

	assert.Equal(t, 42, getenvInt("TEST_INT", 1))
	assert.Equal(t, 1, getenvInt("TEST_INT_INVALID", 1))
	assert.Equal(t, 7, getenvInt("TEST_INT_MISSING", 7))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, splitAndTrim(` "10.0.0.0/8" , '127.0.0.1',, `))
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "config.yaml", cfg.SettingsFile)
	assert.Equal(t, 60*time.Second, cfg.TickInterval)
	assert.Equal(t, 30*time.Second, cfg.TickTimeout)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Empty(t, cfg.ListenAddr)
	assert.Nil(t, cfg.AllowedCIDRS)
	assert.Equal(t, 10*time.Second, cfg.RefreshCooldown)
	assert.Equal(t, 3, cfg.RefreshBurst)
}

func TestLoad_TickTimeoutClampedToInterval(t *testing.T) {
	t.Setenv("NSTATUS_TICK_INTERVAL", "10s")
	t.Setenv("NSTATUS_TICK_TIMEOUT", "1m")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.TickTimeout)
}
