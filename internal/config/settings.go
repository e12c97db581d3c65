package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. ROCKETSIM_LOG_LEVEL.
const EnvPrefix = "ROCKETSIM"

// Setting keys shared by the config file, environment and CLI flags.
const (
	KeyDataDir    = "data"
	KeyLogLevel   = "log_level"
	KeyDt         = "dt"
	KeyMaxTime    = "max_time"
	KeyController = "controller"
	KeyPreset     = "preset"
	KeyTheme      = "theme"
)

// DefaultTheme names the terminal color theme used when none is set.
const DefaultTheme = "mission"

// Settings are the CLI-wide options after layering defaults, the config
// file, the environment and flags.
type Settings struct {
	DataDir    string  `mapstructure:"data"`
	LogLevel   string  `mapstructure:"log_level"`
	Dt         float64 `mapstructure:"dt"`
	MaxTime    float64 `mapstructure:"max_time"`
	Controller string  `mapstructure:"controller"`
	Preset     string  `mapstructure:"preset"`
	Theme      string  `mapstructure:"theme"`
}

// Init sets defaults and reads the settings file. An explicit path must
// exist; otherwise rocketsim.yaml is looked up in the working directory
// and $HOME/.config/rocketsim and may be absent.
func Init(configFile string) error {
	viper.SetDefault(KeyDataDir, ".rocketsim")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyDt, dynamo.DefaultDt)
	viper.SetDefault(KeyMaxTime, dynamo.DefaultMaxTime)
	viper.SetDefault(KeyController, DefaultController)
	viper.SetDefault(KeyPreset, DefaultPreset)
	viper.SetDefault(KeyTheme, DefaultTheme)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		return nil
	}

	viper.SetConfigName("rocketsim")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/rocketsim")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Current returns the layered settings.
func Current() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// RunFile builds a run file from the settings alone, for invocations
// without a mission file.
func (s Settings) RunFile() *File {
	f := DefaultConfig()
	if s.Dt > 0 {
		f.Sim.Dt = s.Dt
	}
	if s.MaxTime > 0 {
		f.Sim.MaxTime = s.MaxTime
	}
	if s.Controller != "" {
		f.Controller = s.Controller
	}
	if s.Preset != "" {
		f.Preset = s.Preset
	}
	return f
}
