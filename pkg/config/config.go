// Package config loads back-office settings from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// App is the process configuration. Every knob has a working development
// default; production deployments override through the environment.
type App struct {
	Auth        Auth        `json:"auth"`
	Persistence Persistence `json:"persistence"`
	Server      Server      `json:"server"`
}

// Auth holds token and session settings
type Auth struct {
	SigningKey      string   `json:"signing_key"`
	TokenExpiration int      `json:"token_expiration"`
	ContextKey      string   `json:"context_key"`
	Issuer          string   `json:"issuer"`
	Audience        []string `json:"audience"`
}

// Persistence holds database settings
type Persistence struct {
	Driver                string `json:"driver"`
	DSN                   string `json:"dsn"`
	Server                string `json:"server"`
	Database              string `json:"database"`
	Debug                 bool   `json:"debug"`
	PingTimeoutExpression string `json:"ping_timeout"`
	OtelIdentifier        string `json:"otel_identifier"`
}

// Server holds HTTP listener settings
type Server struct {
	Address string `json:"address"`
}

// Load reads an optional .env file and then the environment. A missing .env
// is not an error; explicit environment variables always win because godotenv
// never overwrites existing keys.
func Load(files ...string) (*App, error) {
	_ = godotenv.Load(files...)

	cfg := &App{
		Auth: Auth{
			SigningKey:      getEnv("AUTH_SIGNING_KEY", "development-secret"),
			TokenExpiration: getEnvInt("AUTH_TOKEN_EXPIRATION", 168),
			ContextKey:      getEnv("AUTH_CONTEXT_KEY", "token"),
			Issuer:          getEnv("AUTH_ISSUER", "backoffice"),
			Audience:        getEnvList("AUTH_AUDIENCE", []string{"backoffice"}),
		},
		Persistence: Persistence{
			Driver:                getEnv("DB_DRIVER", "sqlite"),
			DSN:                   getEnv("DB_DSN", "file:backoffice.db?cache=shared&_pragma=foreign_keys(1)"),
			Server:                getEnv("DB_SERVER", ""),
			Database:              getEnv("DB_NAME", "backoffice"),
			Debug:                 getEnvBool("DB_DEBUG", false),
			PingTimeoutExpression: getEnv("DB_PING_TIMEOUT", "5s"),
			OtelIdentifier:        getEnv("DB_OTEL_IDENTIFIER", ""),
		},
		Server: Server{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
	}

	return cfg, nil
}

// GetAuth returns the auth section
func (a *App) GetAuth() *Auth {
	return &a.Auth
}

// GetPersistence returns the persistence section
func (a *App) GetPersistence() *Persistence {
	return &a.Persistence
}

// GetServer returns the server section
func (a *App) GetServer() *Server {
	return &a.Server
}

func (a *Auth) GetSigningKey() string {
	return a.SigningKey
}

// GetTokenExpiration is the credential lifetime in hours
func (a *Auth) GetTokenExpiration() int {
	return a.TokenExpiration
}

// GetContextKey names the cookie that carries the credential
func (a *Auth) GetContextKey() string {
	return a.ContextKey
}

func (a *Auth) GetIssuer() string {
	return a.Issuer
}

func (a *Auth) GetAudience() []string {
	return a.Audience
}

func (p *Persistence) GetDriver() string {
	return p.Driver
}

func (p *Persistence) GetDSN() string {
	return p.DSN
}

func (p *Persistence) GetServer() string {
	return p.Server
}

func (p *Persistence) GetDatabase() string {
	return p.Database
}

// GetOtelIdentifier names the service in query traces; empty disables the
// otel query hook.
func (p *Persistence) GetOtelIdentifier() string {
	return p.OtelIdentifier
}

func (p *Persistence) GetDebug() bool {
	return p.Debug
}

func (p *Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		return 5 * time.Second
	}
	return dur
}

func (s *Server) GetAddress() string {
	return s.Address
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return def
	}

	return out
}
