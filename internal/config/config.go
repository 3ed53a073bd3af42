package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ostvik/league-hub/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	DBURL                          string
	DBDisablePreparedBinary        bool
	CacheEnabled                   bool
	CacheTTL                       time.Duration
	CORSAllowedOrigins             []string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	PprofEnabled                   bool
	PprofAddr                      string
	WardenBaseURL                  string
	WardenAdminKey                 string
	WardenTimeout                  time.Duration
	WardenCircuitEnabled           bool
	WardenCircuitFailureCount      int
	WardenCircuitOpenTimeout       time.Duration
	WardenCircuitHalfOpenMaxReq    int
	UptraceEnabled                 bool
	UptraceDSN                     string
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeBasicAuthUser         string
	PyroscopeBasicAuthPassword     string
	PyroscopeUploadRate            time.Duration
	InternalJobToken               string
	SchedulerEnabled               bool
	SchedulerBaseURL               string
	SchedulerToken                 string
	SchedulerTargetBaseURL         string
	SchedulerRetries               int
	SchedulerCircuitEnabled        bool
	SchedulerCircuitFailureCount   int
	SchedulerCircuitOpenTimeout    time.Duration
	SchedulerCircuitHalfOpenMaxReq int
	InviteTTL                      time.Duration
	InviteSweepInterval            time.Duration
	LogLevel                       logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	inviteTTL, err := time.ParseDuration(getEnv("INVITE_TTL", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_TTL: %w", err)
	}
	if inviteTTL <= 0 {
		return Config{}, fmt.Errorf("INVITE_TTL must be > 0")
	}

	inviteSweepInterval, err := time.ParseDuration(getEnv("INVITE_SWEEP_INTERVAL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_SWEEP_INTERVAL: %w", err)
	}
	if inviteSweepInterval <= 0 {
		return Config{}, fmt.Errorf("INVITE_SWEEP_INTERVAL must be > 0")
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_ENABLED: %w", err)
	}
	schedulerRetries, err := getEnvAsInt("SCHEDULER_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_RETRIES: %w", err)
	}
	if schedulerRetries < 0 {
		return Config{}, fmt.Errorf("SCHEDULER_RETRIES must be >= 0")
	}
	schedulerCircuitEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_CIRCUIT_ENABLED: %w", err)
	}
	schedulerCircuitFailureCount, err := getEnvAsInt("SCHEDULER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if schedulerCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SCHEDULER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	schedulerCircuitOpenTimeout, err := time.ParseDuration(getEnv("SCHEDULER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if schedulerCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SCHEDULER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	schedulerCircuitHalfOpenMaxReq, err := getEnvAsInt("SCHEDULER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if schedulerCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SCHEDULER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	schedulerBaseURL := strings.TrimSpace(getEnv("SCHEDULER_BASE_URL", "https://qstash.upstash.io"))
	schedulerToken := strings.TrimSpace(getEnv("SCHEDULER_TOKEN", ""))
	schedulerTargetBaseURL := strings.TrimSpace(getEnv("SCHEDULER_TARGET_BASE_URL", ""))
	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if schedulerEnabled {
		if schedulerToken == "" {
			return Config{}, fmt.Errorf("SCHEDULER_TOKEN is required when SCHEDULER_ENABLED=true")
		}
		if schedulerTargetBaseURL == "" {
			return Config{}, fmt.Errorf("SCHEDULER_TARGET_BASE_URL is required when SCHEDULER_ENABLED=true")
		}
		if internalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when SCHEDULER_ENABLED=true")
		}
	}

	cfg := Config{
		AppEnv:                         appEnv,
		ServiceName:                    getEnv("APP_SERVICE_NAME", "league-hub-api"),
		ServiceVersion:                 getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                       getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                          getEnv("DB_URL", ""),
		DBDisablePreparedBinary:        true,
		CORSAllowedOrigins:             splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                   pprofEnabled,
		PprofAddr:                      pprofAddr,
		WardenBaseURL:                  getEnv("WARDEN_BASE_URL", "http://localhost:8081"),
		WardenAdminKey:                 getEnv("WARDEN_ADMIN_KEY", ""),
		UptraceEnabled:                 uptraceEnabled,
		UptraceDSN:                     uptraceDSN,
		PyroscopeEnabled:               pyroscopeEnabled,
		PyroscopeServerAddress:         pyroscopeServerAddress,
		PyroscopeAuthToken:             strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:         strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:            pyroscopeUploadRate,
		InternalJobToken:               internalJobToken,
		SchedulerEnabled:               schedulerEnabled,
		SchedulerBaseURL:               schedulerBaseURL,
		SchedulerToken:                 schedulerToken,
		SchedulerTargetBaseURL:         schedulerTargetBaseURL,
		SchedulerRetries:               schedulerRetries,
		SchedulerCircuitEnabled:        schedulerCircuitEnabled,
		SchedulerCircuitFailureCount:   schedulerCircuitFailureCount,
		SchedulerCircuitOpenTimeout:    schedulerCircuitOpenTimeout,
		SchedulerCircuitHalfOpenMaxReq: schedulerCircuitHalfOpenMaxReq,
		InviteTTL:                      inviteTTL,
		InviteSweepInterval:            inviteSweepInterval,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	wardenTimeout, err := time.ParseDuration(getEnv("WARDEN_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WARDEN_TIMEOUT: %w", err)
	}

	wardenCircuitEnabled, err := strconv.ParseBool(getEnv("WARDEN_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WARDEN_CIRCUIT_ENABLED: %w", err)
	}

	wardenCircuitFailureCount, err := getEnvAsInt("WARDEN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse WARDEN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if wardenCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("WARDEN_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	wardenCircuitOpenTimeout, err := time.ParseDuration(getEnv("WARDEN_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WARDEN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if wardenCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("WARDEN_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	wardenCircuitHalfOpenMaxReq, err := getEnvAsInt("WARDEN_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WARDEN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if wardenCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("WARDEN_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.WardenTimeout = wardenTimeout
	cfg.WardenCircuitEnabled = wardenCircuitEnabled
	cfg.WardenCircuitFailureCount = wardenCircuitFailureCount
	cfg.WardenCircuitOpenTimeout = wardenCircuitOpenTimeout
	cfg.WardenCircuitHalfOpenMaxReq = wardenCircuitHalfOpenMaxReq
	cfg.LogLevel = logLevel

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
