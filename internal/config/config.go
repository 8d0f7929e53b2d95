package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Upload     UploadConfig
	Attendance AttendanceConfig
	Approval   ApprovalConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
	Location *time.Location

	AllowedOrigins []string
}

type UploadConfig struct {
	BasePath string
	BaseURL  string
}

// AttendanceConfig holds the working-day rules the verifier applies.
type AttendanceConfig struct {
	ShiftStart         string // HH:MM, local time
	GracePeriodMinutes int
	AbsentCutoffHour   int
	WorkDays           []time.Weekday
}

type ApprovalConfig struct {
	ChainsFile string
	Chains     ChainTable
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Error loading .env file", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "presensi"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Jakarta"),
	}
	for _, origin := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.App.AllowedOrigins = append(config.App.AllowedOrigins, origin)
		}
	}

	config.App.Location, err = time.LoadLocation(config.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Upload = UploadConfig{
		BasePath: getEnv("UPLOAD_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("UPLOAD_BASE_URL", "/uploads"),
	}

	// Attendance rules
	grace, err := strconv.Atoi(getEnv("ATTENDANCE_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_MINUTES: %w", err)
	}
	cutoff, err := strconv.Atoi(getEnv("ATTENDANCE_ABSENT_CUTOFF_HOUR", "17"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_ABSENT_CUTOFF_HOUR: %w", err)
	}

	workDays, err := ParseWorkDays(getEnv("ATTENDANCE_WORK_DAYS", "mon,tue,wed,thu,fri"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_WORK_DAYS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		ShiftStart:         getEnv("ATTENDANCE_SHIFT_START", "07:00"),
		GracePeriodMinutes: grace,
		AbsentCutoffHour:   cutoff,
		WorkDays:           workDays,
	}

	// Approval chains
	config.Approval.ChainsFile = getEnv("APPROVAL_CHAINS_FILE", "")
	if config.Approval.ChainsFile == "" {
		config.Approval.Chains = DefaultChains()
	} else {
		config.Approval.Chains, err = LoadChains(config.Approval.ChainsFile)
		if err != nil {
			return nil, err
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, ok := validator.IsValidClock(c.Attendance.ShiftStart); !ok {
		return fmt.Errorf("ATTENDANCE_SHIFT_START must be in HH:MM format")
	}
	if c.Attendance.GracePeriodMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_MINUTES must not be negative")
	}
	if c.Attendance.AbsentCutoffHour < 0 || c.Attendance.AbsentCutoffHour > 23 {
		return fmt.Errorf("ATTENDANCE_ABSENT_CUTOFF_HOUR must be between 0 and 23")
	}
	return c.Approval.Chains.Validate()
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWorkDays parses a comma separated list of three-letter weekday names.
func ParseWorkDays(raw string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("at least one work day is required")
	}
	return days, nil
}

// ShiftStartOffset returns the shift start as an offset from local midnight.
func (c *Config) ShiftStartOffset() time.Duration {
	t, _ := validator.IsValidClock(c.Attendance.ShiftStart)
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
