package lib

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// SaveEnvironment records env in dir/config.yaml, keeping whatever else the
// file holds. With activate the environment also becomes the default one.
// Only the file's own keys are written back, never defaults or env vars.
func SaveEnvironment(dir string, env *Environment, activate bool) (string, error) {
	if env.Name == "" {
		return "", errors.New("environment name is required")
	}
	if env.ClientID == "" || env.RedirectURL == "" {
		return "", errors.Errorf("environment %s needs a client id and a redirect URL", env.Name)
	}
	if _, err := BuildAuthURLs(env); err != nil {
		return "", err
	}

	if dir == "" {
		dir = ConfigPath()
	}
	configPath := filepath.Join(dir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", errors.Wrapf(err, "cannot read %s", configPath)
	}

	prefix := ENVIRONMENTS + "." + env.Name + "."
	v.Set(prefix+"auth_base", env.AuthBase)
	v.Set(prefix+"client_id", env.ClientID)
	v.Set(prefix+"redirect_url", env.RedirectURL)
	if activate {
		v.Set(ENVIRONMENT, env.Name)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.Wrapf(err, "cannot create %s", dir)
	}
	if err := v.WriteConfigAs(configPath); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", configPath)
	}
	return configPath, nil
}
