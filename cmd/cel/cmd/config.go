package cmd

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// cliConfig is the optional on-disk configuration for diagnostic logging.
// The evaluator core never reads this file or touches logrus itself; it is
// purely a convenience for the CLI binary.
type cliConfig struct {
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// loadConfig reads path if it exists and applies it to logrus. A missing
// path is not an error: the CLI then keeps the level setupLogging chose
// (warn, or debug under -v) and logrus's default text format.
func loadConfig(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	var cfg cliConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return err
	}
	if cfg.Log.Level != "" {
		lvl, err := logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	}
	if cfg.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}
