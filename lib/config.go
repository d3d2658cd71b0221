package lib

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	ENVIRONMENT              = "environment"
	BACKEND_URL              = "backend_url"
	LISTEN                   = "listen"
	LOG_LEVEL                = "log_level"
	EXCHANGE_WITHOUT_CODE    = "exchange_without_code"
	SURFACE_TRANSPORT_ERRORS = "surface_transport_errors"
	ENVIRONMENTS             = "environments"

	ENV_PREFIX = "DC_DASHBOARD"
)

// Environment is one deployment target of the identity provider.
type Environment struct {
	Name        string `mapstructure:"-"`
	AuthBase    string `mapstructure:"auth_base"`
	ClientID    string `mapstructure:"client_id"`
	RedirectURL string `mapstructure:"redirect_url"`
}

type Settings struct {
	Environment            string                 `mapstructure:"environment"`
	BackendURL             string                 `mapstructure:"backend_url"`
	Listen                 string                 `mapstructure:"listen"`
	LogLevel               string                 `mapstructure:"log_level"`
	ExchangeWithoutCode    bool                   `mapstructure:"exchange_without_code"`
	SurfaceTransportErrors bool                   `mapstructure:"surface_transport_errors"`
	Environments           map[string]Environment `mapstructure:"environments"`
}

var builtinEnvironments = map[string]Environment{
	"staging": {
		AuthBase:    "https://key-staging.auth.us-east-1.amazoncognito.com/",
		ClientID:    "4ruo8kesvp7jjrl5rtirr703e6",
		RedirectURL: "https://key-staging-dc-frontend.s3.amazonaws.com/frontend/dashboard/index.html",
	},
	"production": {},
}

var configpath string

func ConfigPath() string {
	if configpath != "" {
		return configpath
	}
	path := os.Getenv(ENV_PREFIX + "_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			Exit(err)
		}
		path = filepath.Join(home, ".dc-dashboard")
	}
	configpath = path
	return configpath
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(ENVIRONMENT, "staging")
	v.SetDefault(BACKEND_URL, "https://6zvhq12qa3.execute-api.us-east-1.amazonaws.com/prod")
	v.SetDefault(LISTEN, "127.0.0.1:8080")
	v.SetDefault(LOG_LEVEL, "info")
	v.SetDefault(EXCHANGE_WITHOUT_CODE, true)
	v.SetDefault(SURFACE_TRANSPORT_ERRORS, false)
	// Empty entries still register the keys so env vars can fill them in.
	for name, env := range builtinEnvironments {
		prefix := ENVIRONMENTS + "." + name + "."
		v.SetDefault(prefix+"auth_base", env.AuthBase)
		v.SetDefault(prefix+"client_id", env.ClientID)
		v.SetDefault(prefix+"redirect_url", env.RedirectURL)
	}
}

// NewViper layers env vars and dir/config.yaml over the built-in defaults.
// A missing config file is fine.
func NewViper(dir string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir == "" {
		dir = ConfigPath()
	}
	configFile := filepath.Join(dir, "config.yaml")
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "cannot read %s", configFile)
	}
	Traceln("Config file: %s", configFile)
	return v, nil
}

func LoadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "malformed configuration")
	}
	s.Environment = strings.ToLower(s.Environment)
	return &s, nil
}

// Active selects the configured environment. Every field must be set.
func (s *Settings) Active() (*Environment, error) {
	env, ok := s.Environments[s.Environment]
	if !ok {
		return nil, errors.Errorf("environment not found: %s", s.Environment)
	}
	env.Name = s.Environment

	var missing []string
	if env.AuthBase == "" {
		missing = append(missing, "auth_base")
	}
	if env.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if env.RedirectURL == "" {
		missing = append(missing, "redirect_url")
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("environment %s is not configured, missing %s", env.Name, strings.Join(missing, ", "))
	}
	return &env, nil
}

func (s *Settings) Policy() Policy {
	return Policy{
		ExchangeWithoutCode:    s.ExchangeWithoutCode,
		SurfaceTransportErrors: s.SurfaceTransportErrors,
	}
}
