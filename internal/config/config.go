package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Sender      string `json:"sender" validate:"omitempty,email"`
	Receiver    string `json:"receiver" validate:"omitempty,email"`
	StorePath   string `json:"storepath"`
	Password    string `json:"password"`
	Server      string `json:"server"`
	Port        int    `json:"port" validate:"min=1,max=65535"`
	MailTimeout int    `json:"mail_timeout_seconds" validate:"gte=0"`

	AllowSendTo         bool     `json:"allow_send_to"`
	SizeLimit           int64    `json:"size_limit" validate:"gt=0"`
	PermittedExtensions []string `json:"permitted_extensions" validate:"min=1,dive,startswith=."`
	TempPath            string   `json:"temp_path" validate:"required"`

	ServerAddr string `json:"server_addr" validate:"required"`
	PidFile    string `json:"pid_file"`

	EnableValidation      bool   `json:"enable_validation"`
	ValidationURL         string `json:"validation_url" validate:"required_if=EnableValidation true,omitempty,url"`
	ValidationAPIKey      string `json:"validation_api_key"`
	ValidationTimeout     int    `json:"validation_timeout_seconds" validate:"gt=0"`
	ValidationInsecureTLS bool   `json:"validation_insecure_tls"`

	LogPath  string `json:"log_path"`
	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

const DefaultTimeout = 120
const DefaultSizeLimit = 26_214_400
const DefaultValidationURL = "https://stats.kavitareader.com"
const DefaultValidationTimeout = 30
const XdgConfigHome = "XDG_CONFIG_HOME"
const ConfigFolderName = "kindle-send"
const ConfigFileName = "KindleConfig.json"

var ErrInvalidConfig = errors.New("invalid configuration")

func isGmail(mail string) bool {
	return strings.HasSuffix(strings.ToLower(mail), "@gmail.com")
}

func DefaultConfigPath() (string, error) {
	var configFolder string
	if xdgConfigHome := os.Getenv(XdgConfigHome); xdgConfigHome != "" {
		configFolder = filepath.Join(xdgConfigHome, ConfigFolderName)
	} else {
		u, err := user.Current()
		if err != nil {
			return "", fmt.Errorf("couldn't get current user: %w", err)
		}
		configFolder = filepath.Join(u.HomeDir, ".config", ConfigFolderName)
	}
	return filepath.Join(configFolder, ConfigFileName), nil
}

func NewConfig() *Config {
	return &Config{
		Server:      "smtp.gmail.com",
		Port:        465,
		MailTimeout: DefaultTimeout,

		AllowSendTo:         true,
		SizeLimit:           DefaultSizeLimit,
		PermittedExtensions: []string{".epub", ".pdf"},
		TempPath:            filepath.Join(os.TempDir(), ConfigFolderName),

		ServerAddr: ":5003",

		ValidationURL:         DefaultValidationURL,
		ValidationTimeout:     DefaultValidationTimeout,
		ValidationInsecureTLS: true,

		LogLevel: "info",
	}
}

// setPathDefaults places the log and pid files next to the config file
// unless they were configured explicitly.
func setPathDefaults(c *Config, filename string) {
	dir := filepath.Dir(filename)
	if c.LogPath == "" {
		c.LogPath = filepath.Join(dir, "kindle-send.log")
	}
	if c.PidFile == "" {
		c.PidFile = filepath.Join(dir, "kindle-send.pid")
	}
}

// Exists reports whether a config file is present at filename.
func Exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// Load reads the JSON config file, falling back to defaults for anything it
// does not set (or for a missing file), then applies KINDLE_SEND_*
// environment overrides and validates the result.
func Load(filename string) (*Config, error) {
	c := NewConfig()

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", filename, err)
		}
	}

	if err := applyEnv(c); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	setPathDefaults(c, filename)
	c.LogLevel = strings.ToLower(c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Save writes the config as indented JSON. The file holds the SMTP password
// and is created readable by the owner only.
func Save(c *Config, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(filename, data, 0o600)
}
