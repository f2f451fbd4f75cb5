package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// yamlConfig mirrors ConfigData with YAML tags and string durations
type yamlConfig struct {
	Database struct {
		ConnectionString string `yaml:"connection-string"`
		AutoMigrate      bool   `yaml:"auto-migrate"`
	} `yaml:"database"`
	Redis *struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password,omitempty"`
		DB       int    `yaml:"db,omitempty"`
	} `yaml:"redis,omitempty"`
	HTTP struct {
		ListenAddr string `yaml:"listen-addr,omitempty"`
		Port       int    `yaml:"port,omitempty"`
		Cert       string `yaml:"cert,omitempty"`
		Key        string `yaml:"key,omitempty"`
	} `yaml:"http"`
	Scheduler struct {
		Enabled  bool   `yaml:"enabled"`
		Interval string `yaml:"interval,omitempty"`
	} `yaml:"scheduler"`
	Notifiers struct {
		SMTP *struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Username string `yaml:"username,omitempty"`
			Password string `yaml:"password,omitempty"`
			From     string `yaml:"from"`
		} `yaml:"smtp,omitempty"`
		Webhook *struct {
			Endpoint string `yaml:"endpoint"`
			Token    string `yaml:"token,omitempty"`
			Timeout  string `yaml:"timeout,omitempty"`
		} `yaml:"webhook,omitempty"`
	} `yaml:"notifiers"`
	Logging struct {
		File string `yaml:"file,omitempty"`
	} `yaml:"logging"`
}

// LoadConfig loads the complete configuration from the YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(cfgFile, &yc); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Database: DatabaseData{
			ConnectionString: yc.Database.ConnectionString,
			AutoMigrate:      yc.Database.AutoMigrate,
		},
		HTTP: HTTPData{
			ListenAddr: yc.HTTP.ListenAddr,
			Port:       yc.HTTP.Port,
			Cert:       yc.HTTP.Cert,
			Key:        yc.HTTP.Key,
		},
		Logging: LoggingData{
			File: yc.Logging.File,
		},
	}

	if yc.Redis != nil {
		config.Redis = &RedisData{
			Addr:     yc.Redis.Addr,
			Password: yc.Redis.Password,
			DB:       yc.Redis.DB,
		}
	}

	config.Scheduler.Enabled = yc.Scheduler.Enabled
	if yc.Scheduler.Interval != "" {
		interval, err := time.ParseDuration(yc.Scheduler.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduler interval %q: %w", yc.Scheduler.Interval, err)
		}
		config.Scheduler.Interval = interval
	}

	if yc.Notifiers.SMTP != nil {
		config.Notifiers.SMTP = &SMTPData{
			Host:     yc.Notifiers.SMTP.Host,
			Port:     yc.Notifiers.SMTP.Port,
			Username: yc.Notifiers.SMTP.Username,
			Password: yc.Notifiers.SMTP.Password,
			From:     yc.Notifiers.SMTP.From,
		}
	}
	if yc.Notifiers.Webhook != nil {
		wh := &WebhookData{
			Endpoint: yc.Notifiers.Webhook.Endpoint,
			Token:    yc.Notifiers.Webhook.Token,
		}
		if yc.Notifiers.Webhook.Timeout != "" {
			timeout, err := time.ParseDuration(yc.Notifiers.Webhook.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid webhook timeout %q: %w", yc.Notifiers.Webhook.Timeout, err)
			}
			wh.Timeout = timeout
		}
		config.Notifiers.Webhook = wh
	}

	y.config = config
	return config, nil
}

// IsReadOnly returns true since YAML files are read-only via this provider
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}
