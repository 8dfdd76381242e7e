package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

const defaultPort = "5000"

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	Static   StaticConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Security SecurityConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	metrics, err := loadMetricsConfig()
	if err != nil {
		return nil, err
	}

	security, err := loadSecurityConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Static:   loadStaticConfig(),
		Log:      logCfg,
		Metrics:  metrics,
		Security: security,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
	Port string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":5000" 或 "127.0.0.1:5000"。
		_, p, err := net.SplitHostPort(port)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		return ServerConfig{Addr: port, Port: p}, nil
	}

	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value %q: %w", port, err)
	}

	return ServerConfig{Addr: ":" + port, Port: port}, nil
}

// StaticConfig 描述静态站点目录与默认页面。
type StaticConfig struct {
	Root  string
	Index string
}

func loadStaticConfig() StaticConfig {
	return StaticConfig{
		Root:  getEnvOrDefault("STATIC_DIR", "public"),
		Index: strings.TrimPrefix(getEnvOrDefault("STATIC_INDEX", "index.html"), "/"),
	}
}

// LogConfig 描述日志级别与输出格式。
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() (LogConfig, error) {
	format := strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text"))
	if format != "text" && format != "json" {
		return LogConfig{}, fmt.Errorf("invalid LOG_FORMAT value %q: must be text or json", format)
	}

	return LogConfig{
		Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format: format,
	}, nil
}

// MetricsConfig 控制 Prometheus 指标端点。
type MetricsConfig struct {
	Enabled bool
	Path    string
}

func loadMetricsConfig() (MetricsConfig, error) {
	enabled, err := parseBoolEnv("METRICS_ENABLED", false)
	if err != nil {
		return MetricsConfig{}, err
	}

	path := getEnvOrDefault("METRICS_PATH", "/metrics")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return MetricsConfig{Enabled: enabled, Path: path}, nil
}

// SecurityConfig 描述跨域与响应安全头配置。
type SecurityConfig struct {
	AllowedOrigins []string
	CSPEnabled     bool
}

func loadSecurityConfig() (SecurityConfig, error) {
	csp, err := parseBoolEnv("CSP_ENABLED", false)
	if err != nil {
		return SecurityConfig{}, err
	}

	return SecurityConfig{
		AllowedOrigins: parseListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CSPEnabled:     csp,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
