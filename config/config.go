package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted in LLM_BACKEND.
const (
	BackendGroq   = "groq"
	BackendGemini = "gemini"
)

type backendDefaults struct {
	keyEnv  string
	baseURL string
	model   string
}

var backends = map[string]backendDefaults{
	BackendGroq: {
		keyEnv:  "GROQ_API_KEY",
		baseURL: "https://api.groq.com/openai/v1",
		model:   "llama-3.3-70b-versatile",
	},
	BackendGemini: {
		keyEnv:  "GEMINI_API_KEY",
		baseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
		model:   "gemini-2.5-flash",
	},
}

// Config is built once at startup and only read afterwards.
type Config struct {
	Port        string
	GinMode     string
	Env         string
	LogLevel    string
	CORSOrigins []string
	MaxBodySize int64

	Backend    string
	APIKey     string
	BaseURL    string
	Model      string
	LLMTimeout time.Duration

	// ErrorDetail adds the extraction failure reason to fallback bodies.
	ErrorDetail bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an env lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := sanitizeEnv(getenv(key)); v != "" {
			return v
		}
		return def
	}

	backend := strings.ToLower(get("LLM_BACKEND", BackendGroq))
	defs, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown LLM_BACKEND %q (want %s or %s)", backend, BackendGroq, BackendGemini)
	}

	cfg := &Config{
		Port:     get("PORT", "8080"),
		GinMode:  get("GIN_MODE", "release"),
		Env:      get("APP_ENV", "production"),
		LogLevel: get("LOG_LEVEL", "info"),
		Backend:  backend,
		APIKey:   get(defs.keyEnv, ""),
		BaseURL:  strings.TrimRight(get("LLM_BASE_URL", defs.baseURL), "/"),
		Model:    get("LLM_MODEL", defs.model),
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s is required for backend %s", defs.keyEnv, backend)
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("invalid GIN_MODE %q", cfg.GinMode)
	}

	for _, o := range strings.Split(get("CORS_ALLOW_ORIGINS", "*"), ",") {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
		case o == "*", strings.HasPrefix(o, "http://"), strings.HasPrefix(o, "https://"):
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		default:
			return nil, fmt.Errorf("invalid CORS origin %q: must be * or start with http:// or https://", o)
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	var err error
	if cfg.LLMTimeout, err = time.ParseDuration(get("LLM_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}
	if cfg.LLMTimeout <= 0 {
		return nil, errors.New("LLM_TIMEOUT must be positive")
	}
	if cfg.MaxBodySize, err = strconv.ParseInt(get("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid MAX_BODY_BYTES: %w", err)
	}
	if cfg.MaxBodySize <= 0 {
		return nil, errors.New("MAX_BODY_BYTES must be positive")
	}
	if cfg.ErrorDetail, err = strconv.ParseBool(get("EXTRACTION_ERROR_DETAIL", "true")); err != nil {
		return nil, fmt.Errorf("invalid EXTRACTION_ERROR_DETAIL: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

// sanitizeEnv trims spaces and one pair of matching surrounding quotes,
// which some .env editors leave around keys.
func sanitizeEnv(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
