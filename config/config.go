package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/owl-K/nebula-carina"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "NEBULA_"

// Defaults.
const (
	DefaultMaxConnectionPoolSize = 10
	DefaultSpace                 = "main"
	DefaultTimezone              = "UTC"
	DefaultUserName              = "root"
)

// ConnectionConfig holds the settings a client reads once at construction.
type ConnectionConfig struct {
	MaxConnectionPoolSize int      `yaml:"max_connection_pool_size" validate:"gte=1"`
	Servers               []string `yaml:"servers" validate:"dive,hostname_port"`
	UserName              string   `yaml:"user_name" validate:"required"`
	Password              string   `yaml:"password"`
	DefaultSpace          string   `yaml:"default_space" validate:"required,space"`
	// AutoCreateDefaultSpaceWithVIDDesc is the vid type used to create the
	// default space on Init, e.g. FIXED_STRING(32). Empty disables it.
	AutoCreateDefaultSpaceWithVIDDesc string `yaml:"auto_create_default_space_with_vid_desc"`
	TimezoneName                      string `yaml:"timezone_name" validate:"required,timezone"`
}

// Default returns the default settings.
func Default() ConnectionConfig {
	return ConnectionConfig{
		MaxConnectionPoolSize: DefaultMaxConnectionPoolSize,
		UserName:              DefaultUserName,
		DefaultSpace:          DefaultSpace,
		TimezoneName:          DefaultTimezone,
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (ConnectionConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, carina.NewConfigError(path, "read", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, carina.NewConfigError(path, "decode yaml", err)
	}
	return cfg, cfg.Validate()
}

// FromEnv applies NEBULA_-prefixed variables from environ (os.Environ
// format) on top of the defaults and validates the result. Servers is a
// comma separated list.
func FromEnv(environ []string) (ConnectionConfig, error) {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		k = strings.ToUpper(k)
		if name, ok := strings.CutPrefix(k, EnvPrefix); ok {
			env[name] = v
		}
	}
	cfg := Default()
	if err := cfg.apply(env); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ReadEnvFiles reads dotenv files (.env when none is given) and returns
// their variables in os.Environ format, followed by the process
// environment so that real variables win.
func ReadEnvFiles(files ...string) ([]string, error) {
	vars, err := godotenv.Read(files...)
	if err != nil {
		return nil, carina.NewConfigError(strings.Join(files, ","), "read env files", err)
	}
	environ := make([]string, 0, len(vars))
	for k, v := range vars {
		environ = append(environ, k+"="+v)
	}
	return append(environ, os.Environ()...), nil
}

func (c *ConnectionConfig) apply(env map[string]string) error {
	for name, v := range env {
		switch name {
		case "MAX_CONNECTION_POOL_SIZE":
			n, err := strconv.Atoi(v)
			if err != nil {
				return carina.NewConfigError(EnvPrefix+name, "not an integer", err)
			}
			c.MaxConnectionPoolSize = n
		case "SERVERS":
			c.Servers = nil
			for s := range strings.SplitSeq(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					c.Servers = append(c.Servers, s)
				}
			}
		case "USER_NAME":
			c.UserName = v
		case "PASSWORD":
			c.Password = v
		case "DEFAULT_SPACE":
			c.DefaultSpace = v
		case "AUTO_CREATE_DEFAULT_SPACE_WITH_VID_DESC":
			c.AutoCreateDefaultSpaceWithVIDDesc = v
		case "TIMEZONE_NAME":
			c.TimezoneName = v
		}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("space", validateSpace)
	return v
}

// validateSpace accepts identifiers usable as a space name without quoting.
func validateSpace(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > 128 {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Validate checks the settings. Field failures are reported as one
// ConfigError per setting.
func (c ConnectionConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return carina.NewConfigError("connection", "validate", err)
	}
	errs := make([]error, len(verrs))
	for i, fe := range verrs {
		errs[i] = carina.NewConfigError(fe.Namespace(), fmt.Sprintf("failed %q validation", fe.Tag()), nil)
	}
	return carina.NewAggregateError(errs...)
}

// Location loads the configured time zone.
func (c ConnectionConfig) Location() (*time.Location, error) {
	name := c.TimezoneName
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, carina.NewConfigError("TimezoneName", "load location", err)
	}
	return loc, nil
}
