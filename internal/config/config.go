package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Mode string

// DevAuthSecret signs tokens when AUTH_HMAC_SECRET is unset. Online mode refuses it.
const DevAuthSecret = "dev-secret-change-me"

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string
	SiteID   string

	DBDriver string // sqlite|postgres|memory
	DBDSN    string

	BlobBasePath string // transcript archive root

	QuestionBankPath      string // csv|yaml|json; empty uses the built-in bank
	SynonymsPath          string // yaml|json; empty uses the built-in table
	QuestionsPerInterview int
	IncludeNameQuestion   bool
	ExcludeVariations     bool

	EnableAuth     bool
	AuthHMACSecret string

	AdminUser     string
	AdminPassHash string // bcrypt; empty disables reviewer login

	CORSOrigins []string

	LogLevel  string
	LogFormat string // json|console
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	defCORS := "http://localhost:3000,http://localhost:5173"
	defFormat := "console"
	if mode == ModeOnline {
		defCORS = ""
		defFormat = "json"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: addr,
		SiteID:   envOr("SITE_ID", "local"),

		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		QuestionBankPath:      os.Getenv("QUESTION_BANK_PATH"),
		SynonymsPath:          os.Getenv("SYNONYMS_PATH"),
		QuestionsPerInterview: envInt("QUESTIONS_PER_INTERVIEW", 5),
		IncludeNameQuestion:   envBool("INCLUDE_NAME_QUESTION", true),
		ExcludeVariations:     envBool("EXCLUDE_VARIATIONS", false),

		EnableAuth:     envBool("ENABLE_AUTH", mode == ModeOnline),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", DevAuthSecret),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  os.Getenv("ADMIN_PASS_HASH"),

		CORSOrigins: csvOr("CORS_ORIGINS", defCORS),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", defFormat),
	}
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DBDriver)
	}
	if c.QuestionsPerInterview <= 0 {
		return fmt.Errorf("QUESTIONS_PER_INTERVIEW must be positive, got %d", c.QuestionsPerInterview)
	}
	if c.Mode != ModeOffline && c.Mode != ModeOnline {
		return fmt.Errorf("MODE: unknown mode %q", c.Mode)
	}
	if c.EnableAuth && c.AuthHMACSecret == "" {
		return fmt.Errorf("AUTH_HMAC_SECRET is required when auth is enabled")
	}
	if c.Mode == ModeOnline && c.AuthHMACSecret == DevAuthSecret {
		return fmt.Errorf("AUTH_HMAC_SECRET must be set in online mode")
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

// envInt returns -1 for an unparsable value so Validate rejects it.
func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
