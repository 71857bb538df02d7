package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Sharing  SharingConfig  `mapstructure:"sharing" validate:"required"`
	Imports  ImportsConfig  `mapstructure:"imports" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel           string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig holds the shared secret used to verify bearer tokens issued by
// the identity service.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// LLMConfig contains the Gemini settings used for artifact generation.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	TextModel    string `mapstructure:"text_model" validate:"required"`
	SpeechModel  string `mapstructure:"speech_model" validate:"required"`
	VoiceName    string `mapstructure:"voice_name" validate:"required"`
	// RequestTimeout bounds a single provider call.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	// BaseURL overrides the Gemini API endpoint, e.g. for a proxy. Empty uses the default.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// SharingConfig controls how published posts are labelled.
type SharingConfig struct {
	// ReservedTitles are system collection names skipped when picking a label.
	ReservedTitles []string `mapstructure:"reserved_titles"`
	DefaultLabel   string   `mapstructure:"default_label" validate:"required"`
}

// ImportsConfig controls bulk imports.
type ImportsConfig struct {
	BatchSize int `mapstructure:"batch_size" validate:"required,gte=1,lte=1000"`
}
