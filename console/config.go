package console

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk settings file: a General section for trace/log
// settings and an Input section mapping host keys to NES buttons per
// controller.
type Config struct {
	General GeneralConfig `toml:"general"`
	Input   InputConfig   `toml:"input"`
}

// GeneralConfig holds settings that don't belong to either controller's
// button mapping.
type GeneralConfig struct {
	TracePath  string `toml:"trace_path"`
	LogModules string `toml:"log_modules"`
}

// InputConfig maps host key names to NES button names for each
// controller. The host frontend resolves these into input.Snapshot bits;
// this package only carries the setting, it does not interpret key names.
type InputConfig struct {
	P1 map[string]string `toml:"p1"`
	P2 map[string]string `toml:"p2"`
}

// LoadConfig decodes a TOML settings file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// SaveConfig encodes cfg as TOML to path.
func SaveConfig(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
