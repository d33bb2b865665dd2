package config

const (
	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvSanitizePolicy   = "SANITIZE_POLICY"
	EnvStructValidation = "STRUCT_VALIDATION"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvStreamInputTopic  = "KAFKA_INPUT_TOPIC"
	EnvStreamOutputTopic = "KAFKA_OUTPUT_TOPIC"
	EnvStreamDLQTopic    = "KAFKA_DLQ_TOPIC"
	EnvStreamGroupID     = "KAFKA_GROUP_ID"
	EnvStreamSpecType    = "KAFKA_SPEC_TYPE"
	EnvStreamSpecFields  = "KAFKA_SPEC_FIELDS"
)
