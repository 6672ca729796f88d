package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains the operator authentication settings that protect
// the administrative content endpoints.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	OperatorUsername     string `mapstructure:"operator_username" validate:"required"`
	// OperatorPasswordHash is a bcrypt hash, see cmd/hash-generator.
	OperatorPasswordHash string `mapstructure:"operator_password_hash" validate:"required"`
}

// LLMConfig contains all LLM integration related settings.
//
// APIKey is deliberately not required here: a missing key must surface as a
// configuration failure of each generation attempt, not as a startup error.
type LLMConfig struct {
	Provider          string  `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url" validate:"omitempty,url"`
	ModelName         string  `mapstructure:"model_name" validate:"required"`
	MaxOutputTokens   int     `mapstructure:"max_output_tokens" validate:"gt=0"`
	Temperature       float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// TaskConfig contains settings for background content generation.
type TaskConfig struct {
	WorkerCount             int `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize               int `mapstructure:"queue_size" validate:"gt=0"`
	BackfillIntervalMinutes int `mapstructure:"backfill_interval_minutes" validate:"gte=0"`
	BackfillBatchSize       int `mapstructure:"backfill_batch_size" validate:"gt=0"`
	FailureCooldownMinutes  int `mapstructure:"failure_cooldown_minutes" validate:"gte=0"`
}
