package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa toda la configuración de runtime, leída de variables de
// entorno (y un .env opcional para desarrollo). Los mismos valores sirven al
// cliente de terminal y al stub de backend.
type Config struct {
	// Cliente
	APIBaseURL     string `mapstructure:"API_BASE_URL"`
	HTTPTimeoutSec int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	// StateDir guarda los caches locales del cliente (sesión, menú) y el log.
	// Equivalente al almacenamiento local del navegador: descartable y
	// reconstruible desde el backend.
	StateDir       string `mapstructure:"STATE_DIR"`
	PDFStoragePath string `mapstructure:"PDF_STORAGE_PATH"`

	// Stub de backend
	Port      int    `mapstructure:"PORT"`
	Env       string `mapstructure:"APP_ENV"` // development | production
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// Horas de vigencia del token emitido por el stub.
	JWTExpirationHours int `mapstructure:"JWT_EXPIRATION_HOURS"`
	// Orígenes de navegador permitidos, separados por coma. "*" abre todo
	// y es el valor de desarrollo.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// CORSOrigins devuelve la lista de orígenes permitidos, ya separada y sin
// espacios sobrantes.
func (c *Config) CORSOrigins() []string {
	var origenes []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origenes = append(origenes, o)
		}
	}
	return origenes
}

// HTTPTimeout devuelve el timeout del cliente HTTP como duración.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// Load lee la configuración desde el entorno.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	home, _ := os.UserHomeDir()
	defaultState := filepath.Join(home, ".blacksilver")

	viper.SetDefault("API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("STATE_DIR", defaultState)
	viper.SetDefault("PDF_STORAGE_PATH", filepath.Join(defaultState, "entregas"))
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", "blacksilver-dev-secret")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// .env opcional — no falla si no existe
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
