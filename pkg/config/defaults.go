package config

import "time"

const (
	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultSanitizePolicy   = "fail_hard"
	DefaultStructValidation = false

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultStreamInputTopic  = "sanitizer.raw"
	DefaultStreamOutputTopic = "sanitizer.clean"
	DefaultStreamDLQTopic    = "sanitizer.dlq"
	DefaultStreamGroupID     = "sanitizer-stream"
	DefaultStreamSpecType    = "Contact"
)
