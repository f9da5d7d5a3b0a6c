package cli

import (
	"errors"
	"fmt"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/frankonly/merklekit/crypto"
	"github.com/frankonly/merklekit/log"
	"github.com/frankonly/merklekit/merkle"
)

const (
	envPrefix      = "merkle"
	configFileName = ".merkle"
)

// loadConfig merges flags, MERKLE_* variables and the config file into v.
// A missing default config file is not an error, a missing explicit one is.
func loadConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	} else if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(configFileName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if err := log.SetLevel(v.GetString("log-level")); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	log.New().Debugw("config loaded", "file", v.ConfigFileUsed(), "hasher", v.GetString("hasher"))
	return nil
}

// newBuilder returns a builder configured from v
func newBuilder(v *viper.Viper) (*merkle.Builder, error) {
	hasher, err := crypto.HasherByName(v.GetString("hasher"))
	if err != nil {
		return nil, err
	}

	return merkle.NewBuilder(
		merkle.WithHasher(hasher),
		merkle.WithLogger(log.New()),
		merkle.WithParallelDepth(v.GetInt("parallel-depth")),
	), nil
}
