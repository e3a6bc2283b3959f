package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_EnablesAll(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, Names(), cfg.Enabled())
}

func TestConfigOf(t *testing.T) {
	cfg := ConfigOf(Rule13s, RuleR4s)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, []Name{Rule13s, RuleR4s}, cfg.Enabled())
}

func TestConfigValidate_UnknownRule(t *testing.T) {
	cfg := DefaultConfig()
	cfg["1-2s"] = true
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "1-2s")
}

func TestConfigValidate_Missing(t *testing.T) {
	err := Config{Rule13s: true}.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "10x")
}

func TestParseName_CaseInsensitive(t *testing.T) {
	n, err := ParseName("r-4s")
	assert.NoError(t, err)
	assert.Equal(t, RuleR4s, n)

	n, err = ParseName(" 7-t ")
	assert.NoError(t, err)
	assert.Equal(t, Rule7T, n)

	_, err = ParseName("1-2s")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
