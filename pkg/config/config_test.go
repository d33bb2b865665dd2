package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typesanitizer/pkg/sanitizer"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv("test")

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, sanitizer.FailHard, cfg.Policy)
	assert.False(t, cfg.StructValidation)
	assert.Equal(t, DefaultMaxRequestSize, cfg.MaxRequestSize)
	assert.Equal(t, DefaultStreamSpecType, cfg.SpecType)
	assert.NotNil(t, cfg.Log)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvLogFormat, "text")
	t.Setenv(EnvSanitizePolicy, "null_on_failure")
	t.Setenv(EnvStructValidation, "true")
	t.Setenv(EnvRequestTimeout, "5s")
	t.Setenv(EnvMaxRequestSize, "2048")
	t.Setenv(EnvStreamSpecType, "Order")

	cfg := FromEnv("test")

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, sanitizer.NullOnFailure, cfg.Policy)
	assert.True(t, cfg.StructValidation)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2048, cfg.MaxRequestSize)
	assert.Equal(t, "Order", cfg.SpecType)
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.SanitizerOptions(), 3)
}

func TestFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv(EnvMaxRequestSize, "lots")
	t.Setenv(EnvReadTimeout, "soon")
	t.Setenv(EnvStructValidation, "maybe")

	cfg := FromEnv("test")

	assert.Equal(t, DefaultMaxRequestSize, cfg.MaxRequestSize)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.False(t, cfg.StructValidation)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "0" }, "Port must be between"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel must be one of"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "LogFormat must be"},
		{"bad policy", func(c *Config) { c.PolicyName = "lenient" }, "SanitizePolicy must be"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "RequestTimeout must be positive"},
		{"negative size", func(c *Config) { c.MaxRequestSize = -1 }, "MaxRequestSize must be positive"},
		{"same topics", func(c *Config) { c.OutputTopic = c.InputTopic }, "must differ"},
		{"no group", func(c *Config) { c.GroupID = "" }, "GroupID cannot be empty"},
		{"no spec type", func(c *Config) { c.SpecType = "" }, "SpecType cannot be empty"},
		{"bad spec fields", func(c *Config) { c.SpecFields = "name" }, "SpecFields is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromEnv("test")
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := FromEnv("test")
	cfg.Port = "abc"
	cfg.IdleTimeout = 0
	cfg.GroupID = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. Port")
	assert.Contains(t, err.Error(), "2. IdleTimeout")
	assert.Contains(t, err.Error(), "3. GroupID")
}

func TestParseFieldMap(t *testing.T) {
	fields, err := ParseFieldMap(" name : string, phone:phoneNumber ,,ids:int[]")
	require.NoError(t, err)
	assert.Equal(t, sanitizer.FieldMap{"name": "string", "phone": "phoneNumber", "ids": "int[]"}, fields)

	for _, bad := range []string{"", " , ", "name", "name:", ":int", "a:int,a:string"} {
		_, err := ParseFieldMap(bad)
		assert.Error(t, err, bad)
	}
}

func TestStreamSpec(t *testing.T) {
	cfg := FromEnv("test")
	assert.Equal(t, sanitizer.TypeName(DefaultStreamSpecType), cfg.StreamSpec())

	t.Setenv(EnvStreamSpecFields, "n:int")
	cfg = FromEnv("test")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, sanitizer.FieldMap{"n": "int"}, cfg.StreamSpec())
}
