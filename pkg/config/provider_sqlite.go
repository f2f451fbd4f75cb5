package config

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration.
// The database holds one row per configuration section, keyed by the
// 'default' config name, so deployments can manage settings without
// shipping YAML files.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from the SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	query := `
		SELECT db_connection_string, db_auto_migrate,
		       redis_addr, redis_password, redis_db,
		       http_listen_addr, http_port, http_cert, http_key,
		       scheduler_enabled, scheduler_interval,
		       log_file
		FROM configs
		WHERE name = 'default'`

	var (
		redisAddr     sql.NullString
		redisPassword sql.NullString
		redisDB       sql.NullInt64
		interval      sql.NullString
		logFile       sql.NullString
	)

	err := s.db.QueryRow(query).Scan(
		&config.Database.ConnectionString,
		&config.Database.AutoMigrate,
		&redisAddr,
		&redisPassword,
		&redisDB,
		&config.HTTP.ListenAddr,
		&config.HTTP.Port,
		&config.HTTP.Cert,
		&config.HTTP.Key,
		&config.Scheduler.Enabled,
		&interval,
		&logFile,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load config row: %w", err)
	}

	if redisAddr.Valid && redisAddr.String != "" {
		config.Redis = &RedisData{
			Addr:     redisAddr.String,
			Password: redisPassword.String,
			DB:       int(redisDB.Int64),
		}
	}
	if interval.Valid && interval.String != "" {
		d, err := time.ParseDuration(interval.String)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduler interval %q: %w", interval.String, err)
		}
		config.Scheduler.Interval = d
	}
	config.Logging.File = logFile.String

	notifiers, err := s.loadNotifiers()
	if err != nil {
		return nil, err
	}
	config.Notifiers = *notifiers

	return config, nil
}

// loadNotifiers returns the notifier configurations from the database
func (s *SQLiteProvider) loadNotifiers() (*NotifiersData, error) {
	query := `
		SELECT type, host, port, username, password, from_address,
		       endpoint, token, timeout
		FROM notifiers
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifiers: %w", err)
	}
	defer rows.Close()

	notifiers := &NotifiersData{}
	for rows.Next() {
		var (
			ntype    string
			host     sql.NullString
			port     sql.NullInt64
			username sql.NullString
			password sql.NullString
			from     sql.NullString
			endpoint sql.NullString
			token    sql.NullString
			timeout  sql.NullString
		)
		if err := rows.Scan(&ntype, &host, &port, &username, &password, &from,
			&endpoint, &token, &timeout); err != nil {
			return nil, fmt.Errorf("failed to scan notifier row: %w", err)
		}

		switch ntype {
		case "smtp":
			notifiers.SMTP = &SMTPData{
				Host:     host.String,
				Port:     int(port.Int64),
				Username: username.String,
				Password: password.String,
				From:     from.String,
			}
		case "webhook":
			wh := &WebhookData{
				Endpoint: endpoint.String,
				Token:    token.String,
			}
			if timeout.Valid && timeout.String != "" {
				d, err := time.ParseDuration(timeout.String)
				if err != nil {
					return nil, fmt.Errorf("invalid webhook timeout %q: %w", timeout.String, err)
				}
				wh.Timeout = d
			}
			notifiers.Webhook = wh
		}
	}

	return notifiers, rows.Err()
}

// IsReadOnly returns false since SQLite configurations can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the underlying database handle
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
