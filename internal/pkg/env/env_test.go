package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedMap(t *testing.T) {
	t.Cleanup(func() { Env = nil })

	Env = map[string]string{"APP_PORT": "5000"}
	t.Setenv("APP_PORT", "6000")
	assert.Equal(t, "5000", GetEnv("APP_PORT", "4000"))

	Env = nil
	assert.Equal(t, "6000", GetEnv("APP_PORT", "4000"))
	assert.Equal(t, "4000", GetEnv("APP_MISSING", "4000"))
}

func TestGetEnvBool(t *testing.T) {
	t.Cleanup(func() { Env = nil })
	Env = map[string]string{
		"ON_TRUE":  "true",
		"ON_ONE":   "1",
		"OFF":      "false",
		"OFF_WORD": "yes",
	}

	assert.True(t, GetEnvBool("ON_TRUE", false))
	assert.True(t, GetEnvBool("ON_ONE", false))
	assert.False(t, GetEnvBool("OFF", true))
	assert.False(t, GetEnvBool("OFF_WORD", true), "only true and 1 enable a switch")
	assert.True(t, GetEnvBool("UNSET", true))
	assert.False(t, GetEnvBool("UNSET", false))
}

func TestIsDev(t *testing.T) {
	t.Cleanup(func() { Env = nil })

	Env = map[string]string{"APP_ENV": "dev"}
	assert.True(t, IsDev())

	Env = map[string]string{"APP_ENV": "prod"}
	assert.False(t, IsDev())

	Env = map[string]string{}
	assert.False(t, IsDev(), "defaults to prod")
}
