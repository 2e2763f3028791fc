package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=sqlite mysql"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	BusyTimeoutMS   int    `mapstructure:"busy_timeout_ms"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverMySQL {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=Local&clientFoundRows=true",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	}
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", d.Path, d.BusyTimeoutMS)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type EmailConfig struct {
	SMTPHost           string `mapstructure:"smtp_host"`
	SMTPPort           int    `mapstructure:"smtp_port"`
	SMTPUser           string `mapstructure:"smtp_user"`
	SMTPPassword       string `mapstructure:"smtp_password"`
	SMTPSSL            bool   `mapstructure:"smtp_ssl"`
	FromAddress        string `mapstructure:"from_address"`
	FromName           string `mapstructure:"from_name"`
	NotifyTo           string `mapstructure:"notify_to"`
	SendTimeoutSeconds int    `mapstructure:"send_timeout_seconds" validate:"min=1"`
}

// Sender returns the configured from address, falling back to the SMTP user.
func (e *EmailConfig) Sender() string {
	if e.FromAddress != "" {
		return e.FromAddress
	}
	return e.SMTPUser
}

// Recipient returns the mailbox that receives ticket notifications.
func (e *EmailConfig) Recipient() string {
	if e.NotifyTo != "" {
		return e.NotifyTo
	}
	return e.SMTPUser
}

func (e *EmailConfig) SendTimeout() time.Duration {
	return time.Duration(e.SendTimeoutSeconds) * time.Second
}

type UploadConfig struct {
	Dir         string `mapstructure:"dir" validate:"required"`
	MaxFiles    int    `mapstructure:"max_files" validate:"min=0,max=3"`
	MaxFileSize int64  `mapstructure:"max_file_size" validate:"min=1"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"min=0"`
	RequestsPerHour   int `mapstructure:"requests_per_hour" validate:"min=0"`
}

type SchedulerConfig struct {
	OrphanAuditIntervalMinutes int `mapstructure:"orphan_audit_interval_minutes" validate:"min=0"`
}
