package config

import "time"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Database  DatabaseData  `json:"database"`
	Redis     *RedisData    `json:"redis,omitempty"`
	HTTP      HTTPData      `json:"http"`
	Scheduler SchedulerData `json:"scheduler"`
	Notifiers NotifiersData `json:"notifiers"`
	Logging   LoggingData   `json:"logging"`
}

// DatabaseData holds the PostgreSQL connection configuration
type DatabaseData struct {
	ConnectionString string `json:"connection_string"`
	AutoMigrate      bool   `json:"auto_migrate"`
}

// RedisData holds the optional Redis cache configuration. When absent,
// the service falls back to an in-process cache.
type RedisData struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

// HTTPData holds the REST server configuration
type HTTPData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
}

// SchedulerData holds the alert processing scheduler configuration
type SchedulerData struct {
	Enabled  bool          `json:"enabled"`
	Interval time.Duration `json:"interval,omitempty"`
}

// NotifiersData holds the configuration for notification delivery backends
type NotifiersData struct {
	SMTP    *SMTPData    `json:"smtp,omitempty"`
	Webhook *WebhookData `json:"webhook,omitempty"`
}

// SMTPData holds email delivery configuration
type SMTPData struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	From     string `json:"from"`
}

// WebhookData holds the outbound webhook gateway configuration used for
// app and whatsapp notification delivery
type WebhookData struct {
	Endpoint string        `json:"endpoint"`
	Token    string        `json:"token,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}

// LoggingData holds logging configuration
type LoggingData struct {
	File string `json:"file,omitempty"`
}
