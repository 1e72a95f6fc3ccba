package config

import "time"

// ConfigProvider defines the interface for configuration access
type ConfigProvider interface {
	GetSender() string
	GetReceiver() string
	GetStorePath() string
	GetPassword() string
	GetServer() string
	GetPort() int
	GetMailTimeout() time.Duration

	IsSendToAllowed() bool
	GetSizeLimit() int64
	GetPermittedExtensions() []string
	GetTempPath() string

	GetServerAddr() string
	GetPidFile() string

	IsValidationEnabled() bool
	GetValidationURL() string
	GetValidationAPIKey() string
	GetValidationTimeout() time.Duration
	IsValidationInsecureTLS() bool

	GetLogPath() string
	GetLogLevel() string
}

// ConfigImpl implements ConfigProvider over a loaded Config. The Config must
// not be modified once wrapped.
type ConfigImpl struct {
	cfg *Config
}

// NewConfigProvider creates a new ConfigProvider instance
func NewConfigProvider(cfg *Config) ConfigProvider {
	return &ConfigImpl{cfg: cfg}
}

func (c *ConfigImpl) GetSender() string    { return c.cfg.Sender }
func (c *ConfigImpl) GetReceiver() string  { return c.cfg.Receiver }
func (c *ConfigImpl) GetStorePath() string { return c.cfg.StorePath }
func (c *ConfigImpl) GetPassword() string  { return c.cfg.Password }
func (c *ConfigImpl) GetServer() string    { return c.cfg.Server }
func (c *ConfigImpl) GetPort() int         { return c.cfg.Port }

func (c *ConfigImpl) GetMailTimeout() time.Duration {
	return time.Duration(c.cfg.MailTimeout) * time.Second
}

func (c *ConfigImpl) IsSendToAllowed() bool { return c.cfg.AllowSendTo }
func (c *ConfigImpl) GetSizeLimit() int64   { return c.cfg.SizeLimit }
func (c *ConfigImpl) GetTempPath() string   { return c.cfg.TempPath }

func (c *ConfigImpl) GetPermittedExtensions() []string {
	return append([]string(nil), c.cfg.PermittedExtensions...)
}

func (c *ConfigImpl) GetServerAddr() string { return c.cfg.ServerAddr }
func (c *ConfigImpl) GetPidFile() string    { return c.cfg.PidFile }

func (c *ConfigImpl) IsValidationEnabled() bool     { return c.cfg.EnableValidation }
func (c *ConfigImpl) GetValidationURL() string      { return c.cfg.ValidationURL }
func (c *ConfigImpl) GetValidationAPIKey() string   { return c.cfg.ValidationAPIKey }
func (c *ConfigImpl) IsValidationInsecureTLS() bool { return c.cfg.ValidationInsecureTLS }

func (c *ConfigImpl) GetValidationTimeout() time.Duration {
	return time.Duration(c.cfg.ValidationTimeout) * time.Second
}

func (c *ConfigImpl) GetLogPath() string  { return c.cfg.LogPath }
func (c *ConfigImpl) GetLogLevel() string { return c.cfg.LogLevel }
