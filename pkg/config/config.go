package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"typesanitizer/pkg/logger"
	"typesanitizer/pkg/sanitizer"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	Policy           sanitizer.Policy
	PolicyName       string
	StructValidation bool

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	InputTopic  string
	OutputTopic string
	DLQTopic    string
	GroupID     string
	SpecType    string
	// SpecFields is an inline "name:type,name:type" field list. When set it
	// takes precedence over SpecType.
	SpecFields string

	Log *logger.Logger
}

// Load reads the configuration from the environment and exits the process
// when it is invalid.
func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads the configuration without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  strings.ToLower(getEnvStr(EnvLogLevel, DefaultLogLevel)),
		LogFormat: strings.ToLower(getEnvStr(EnvLogFormat, DefaultLogFormat)),

		PolicyName:       getEnvStr(EnvSanitizePolicy, DefaultSanitizePolicy),
		StructValidation: getEnvBool(EnvStructValidation, DefaultStructValidation),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		InputTopic:  getEnvStr(EnvStreamInputTopic, DefaultStreamInputTopic),
		OutputTopic: getEnvStr(EnvStreamOutputTopic, DefaultStreamOutputTopic),
		DLQTopic:    getEnvStr(EnvStreamDLQTopic, DefaultStreamDLQTopic),
		GroupID:     getEnvStr(EnvStreamGroupID, DefaultStreamGroupID),
		SpecType:    getEnvStr(EnvStreamSpecType, DefaultStreamSpecType),
		SpecFields:  os.Getenv(EnvStreamSpecFields),
	}

	// an unknown policy is reported by Validate
	cfg.Policy, _ = sanitizer.ParsePolicy(cfg.PolicyName)

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})
	return cfg
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.LogLevel {
	case logger.DEBUG, logger.INFO, logger.WARN, logger.ERROR:
	default:
		errors = append(errors, fmt.Sprintf("LogLevel must be one of [debug, info, warn, error], got: %s", cfg.LogLevel))
	}
	if cfg.LogFormat != logger.JSON && cfg.LogFormat != logger.TEXT {
		errors = append(errors, fmt.Sprintf("LogFormat must be json or text, got: %s", cfg.LogFormat))
	}

	if _, err := sanitizer.ParsePolicy(cfg.PolicyName); err != nil {
		errors = append(errors, fmt.Sprintf("SanitizePolicy must be fail_hard or null_on_failure, got: %s", cfg.PolicyName))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.InputTopic == "" {
		errors = append(errors, "InputTopic cannot be empty")
	}
	if cfg.OutputTopic == "" {
		errors = append(errors, "OutputTopic cannot be empty")
	}
	if cfg.InputTopic != "" && (cfg.InputTopic == cfg.OutputTopic || cfg.InputTopic == cfg.DLQTopic) {
		errors = append(errors, fmt.Sprintf("InputTopic %q must differ from the output and DLQ topics", cfg.InputTopic))
	}
	if cfg.GroupID == "" {
		errors = append(errors, "GroupID cannot be empty")
	}
	if cfg.SpecType == "" && cfg.SpecFields == "" {
		errors = append(errors, "SpecType cannot be empty")
	}
	if cfg.SpecFields != "" {
		if _, err := ParseFieldMap(cfg.SpecFields); err != nil {
			errors = append(errors, fmt.Sprintf("SpecFields is invalid: %v", err))
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// SanitizerOptions turns the configuration into sanitizer options.
func (cfg *Config) SanitizerOptions() []sanitizer.Option {
	opts := []sanitizer.Option{
		sanitizer.WithPolicy(cfg.Policy),
		sanitizer.WithLogger(cfg.Log),
	}
	if cfg.StructValidation {
		opts = append(opts, sanitizer.WithStructValidation())
	}
	return opts
}

// StreamSpec is the specification the stream worker applies to records that
// carry no type header.
func (cfg *Config) StreamSpec() sanitizer.Spec {
	if cfg.SpecFields != "" {
		if fields, err := ParseFieldMap(cfg.SpecFields); err == nil {
			return fields
		}
	}
	return sanitizer.TypeName(cfg.SpecType)
}

// ParseFieldMap parses "name:type,name:type".
func ParseFieldMap(s string) (sanitizer.FieldMap, error) {
	fields := sanitizer.FieldMap{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, token, ok := strings.Cut(pair, ":")
		name, token = strings.TrimSpace(name), strings.TrimSpace(token)
		if !ok || name == "" || token == "" {
			return nil, fmt.Errorf("expected name:type, got %q", pair)
		}
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("duplicate field %q", name)
		}
		fields[name] = token
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields in %q", s)
	}
	return fields, nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"sanitize_policy", cfg.Policy.String(),
		"struct_validation", cfg.StructValidation,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"input_topic", cfg.InputTopic,
		"output_topic", cfg.OutputTopic,
		"dlq_topic", cfg.DLQTopic,
		"group_id", cfg.GroupID,
		"spec_type", cfg.SpecType,
		"spec_fields", cfg.SpecFields,
	)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
