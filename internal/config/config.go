package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDelayBetweenMessages = 60
	DefaultDelayBetweenGroups   = 10
	DefaultCycleDelay           = 300
)

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Files    FilesConfig    `yaml:"files"`
	Delays   DelaysConfig   `yaml:"delays"`
	LogLevel string         `yaml:"log_level"`
	LogFile  string         `yaml:"log_file"`
}

type TelegramConfig struct {
	APIID       int    `yaml:"api_id"`
	APIHash     string `yaml:"api_hash"`
	Phone       string `yaml:"phone"`
	SessionName string `yaml:"session_name"`
	SessionDir  string `yaml:"session_dir"`
	ParseMode   string `yaml:"parse_mode"`
}

type FilesConfig struct {
	Groups  string `yaml:"groups"`
	Message string `yaml:"message"`
}

// DelaysConfig holds the three fixed pauses, in seconds.
type DelaysConfig struct {
	BetweenMessages int `yaml:"between_messages"`
	BetweenGroups   int `yaml:"between_groups"`
	Cycle           int `yaml:"cycle"`
}

func (d DelaysConfig) MessageDelay() time.Duration {
	return time.Duration(d.BetweenMessages) * time.Second
}

func (d DelaysConfig) GroupDelay() time.Duration {
	return time.Duration(d.BetweenGroups) * time.Second
}

func (d DelaysConfig) CycleDelay() time.Duration {
	return time.Duration(d.Cycle) * time.Second
}

func Dir() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		cfgDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(cfgDir, "tgcast")
}

// Default returns a config with every optional field populated.
func Default() Config {
	cfg := Config{Delays: defaultDelays()}
	cfg.applyDefaults()
	return cfg
}

func defaultDelays() DelaysConfig {
	return DelaysConfig{
		BetweenMessages: DefaultDelayBetweenMessages,
		BetweenGroups:   DefaultDelayBetweenGroups,
		Cycle:           DefaultCycleDelay,
	}
}

// Load reads the YAML file at path. A missing file is an error; callers
// that want to run from the environment alone use Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{Delays: defaultDelays()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = "tgcast.log"
	}
	if c.Telegram.SessionName == "" {
		c.Telegram.SessionName = "tgcast"
	}
	if c.Telegram.SessionDir == "" {
		c.Telegram.SessionDir = Dir()
	}
	if c.Telegram.ParseMode == "" {
		c.Telegram.ParseMode = "plain"
	}
	if c.Files.Groups == "" {
		c.Files.Groups = "groups.txt"
	}
	if c.Files.Message == "" {
		c.Files.Message = "message.txt"
	}
}

// DotenvLookup returns an environment lookup backed by the process
// environment, falling back to the variables in the dotenv file at path.
// A missing file is not an error.
func DotenvLookup(path string) (func(string) (string, bool), error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		vars = nil
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides fields with the environment variables read through
// lookup. Unset variables leave the field alone.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("API_HASH", &c.Telegram.APIHash)
	str("SESSION_NAME", &c.Telegram.SessionName)
	str("PHONE", &c.Telegram.Phone)
	str("LOG_LEVEL", &c.LogLevel)

	for key, dst := range map[string]*int{
		"API_ID":                 &c.Telegram.APIID,
		"DELAY_BETWEEN_MESSAGES": &c.Delays.BetweenMessages,
		"DELAY_BETWEEN_GROUPS":   &c.Delays.BetweenGroups,
		"CYCLE_DELAY":            &c.Delays.Cycle,
	} {
		if err := num(key, dst); err != nil {
			return fmt.Errorf("env: %w", err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Telegram.APIID == 0 {
		errs = append(errs, errors.New("telegram.api_id is required"))
	}
	if c.Telegram.APIHash == "" {
		errs = append(errs, errors.New("telegram.api_hash is required"))
	}
	if c.Delays.BetweenMessages < 0 || c.Delays.BetweenGroups < 0 || c.Delays.Cycle < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	switch c.Telegram.ParseMode {
	case "plain", "html":
	default:
		errs = append(errs, fmt.Errorf("telegram.parse_mode %q: want plain or html", c.Telegram.ParseMode))
	}
	return errors.Join(errs...)
}
