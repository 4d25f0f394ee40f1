package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Pose      PoseConfig
	Fetch     FetchConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // extra CORS origins, localhost is always allowed
	MaxBodyBytes   int64
}

type PoseConfig struct {
	Provider               string  // mediapipe, gemini or openai (defaults to mediapipe)
	URL                    string  // pose server base URL, defaults to http://localhost:8500
	Model                  string  // model name passed to the provider, provider default when empty
	MinDetectionConfidence float64 // forwarded to the pose server (default 0.5)
	MaxImageSize           int     // longest side sent to the detector (default 1920)
	Timeout                time.Duration
}

type FetchConfig struct {
	Timeout  time.Duration // remote image download timeout (default 10s)
	MaxBytes int64         // maximum remote image size (default 20MB)
}

type RateLimitConfig struct {
	RequestsPerSecond float64 // 0 disables rate limiting
	Burst             int
}

type LogConfig struct {
	Level string // logrus level name, defaults to info
	File  string // optional rotating log file
}

type OpenAIConfig struct {
	Token string
}

type GeminiConfig struct {
	APIKey string
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a non-negative float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}

// envDuration reads a Go duration string ("10s", "1m30s").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated environment variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           envString("HOST", "0.0.0.0"),
			Port:           envInt("PORT", 8001),
			AllowedOrigins: envList("ALLOWED_ORIGINS"),
			MaxBodyBytes:   int64(envInt("MAX_BODY_MB", 50)) << 20,
		},
		Pose: PoseConfig{
			Provider:               strings.ToLower(envString("POSE_PROVIDER", "mediapipe")),
			URL:                    os.Getenv("POSE_URL"),
			Model:                  os.Getenv("POSE_MODEL"),
			MinDetectionConfidence: envFloat("POSE_MIN_DETECTION_CONFIDENCE", 0.5),
			MaxImageSize:           envInt("POSE_MAX_IMAGE_SIZE", 1920),
			Timeout:                envDuration("POSE_TIMEOUT", 60*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:  envDuration("FETCH_TIMEOUT", 10*time.Second),
			MaxBytes: int64(envInt("FETCH_MAX_MB", 20)) << 20,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloat("RATE_LIMIT_RPS", 2),
			Burst:             envInt("RATE_LIMIT_BURST", 10),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
	}
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
