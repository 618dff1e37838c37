package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo .env).
type Config struct {
	App  AppConfig
	DB   DBConfig
	JWT  JWTConfig
	HTTP HTTPConfig
	Auth AuthConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// AuthConfig selección del resolutor de identidad.
// "header" = stub de desarrollo (header confiable); "jwt" = Bearer Token.
type AuthConfig struct {
	Mode string
}

// DBConfig configuración de PostgreSQL. Si DatabaseURL no está vacío se usa
// como connection string completo.
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string // ej. file://migrations
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido,
// si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string con URL encoding para caracteres
// especiales en la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente
// desde un archivo .env). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // el archivo es opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "contable-pro"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "contable_pro"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MigrationsPath: getString(v, "DB_MIGRATIONS_PATH", "file://migrations"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "contable-pro"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Auth: AuthConfig{
			Mode: getString(v, "AUTH_MODE", "header"),
		},
	}

	if cfg.Auth.Mode != "header" && cfg.Auth.Mode != "jwt" {
		return nil, fmt.Errorf("AUTH_MODE inválido: %q (se espera header o jwt)", cfg.Auth.Mode)
	}
	if cfg.Auth.Mode == "jwt" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es requerido cuando AUTH_MODE=jwt")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				return n
			}
		}
		return v.GetInt(key)
	}
	return def
}
