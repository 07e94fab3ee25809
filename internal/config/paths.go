package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const homeDirName = ".hawk-hooks"

var envOnce sync.Once

// envString resolves a HAWK_HOOKS_* environment override through viper.
func envString(key string) string {
	envOnce.Do(func() {
		viper.SetEnvPrefix("HAWK_HOOKS")
		viper.AutomaticEnv()
	})
	return viper.GetString(key)
}

// DefaultHome returns the hawk-hooks home directory. HAWK_HOOKS_HOME wins;
// otherwise it is ~/.hawk-hooks.
func DefaultHome() (string, error) {
	if v := envString("home"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeDirName), nil
}
