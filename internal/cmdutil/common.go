package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/ryan-gang/kindle-sendto/internal/config"
	"github.com/ryan-gang/kindle-sendto/internal/logger"
	"github.com/ryan-gang/kindle-sendto/internal/mail"
	"github.com/ryan-gang/kindle-sendto/internal/sendto"
	"github.com/ryan-gang/kindle-sendto/internal/util"
	"github.com/ryan-gang/kindle-sendto/internal/validation"
)

// LoadConfigFromFlags loads configuration using the config flag from the command
func LoadConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(configPath)
}

// LoadConfigOrExit loads configuration and prints the error if it fails.
// Callers exit when it returns nil.
func LoadConfigOrExit(cmd *cobra.Command) *config.Config {
	cfg, err := LoadConfigFromFlags(cmd)
	if err != nil {
		util.LogError(util.ConfigError, "loading configuration", err)
		return nil
	}
	return cfg
}

func PolicyFrom(cfg config.ConfigProvider) sendto.Policy {
	return sendto.Policy{
		AllowSendTo:         cfg.IsSendToAllowed(),
		SizeLimit:           cfg.GetSizeLimit(),
		PermittedExtensions: cfg.GetPermittedExtensions(),
		TempPath:            cfg.GetTempPath(),
	}
}

func ValidationFrom(cfg config.ConfigProvider) validation.Config {
	return validation.Config{
		Enabled:            cfg.IsValidationEnabled(),
		BaseURL:            cfg.GetValidationURL(),
		APIKey:             cfg.GetValidationAPIKey(),
		Timeout:            cfg.GetValidationTimeout(),
		InsecureSkipVerify: cfg.IsValidationInsecureTLS(),
	}
}

// Services are the long lived pieces every command shares.
type Services struct {
	Config     config.ConfigProvider
	Log        logger.LoggerInterface
	Dispatcher *sendto.Dispatcher
	Validator  *validation.Validator
}

func NewServices(c *config.Config) (*Services, error) {
	cfg := config.NewConfigProvider(c)
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	mailer := mail.NewSMTPMailSender(cfg, log)
	return &Services{
		Config:     cfg,
		Log:        log,
		Dispatcher: sendto.NewDispatcher(PolicyFrom(cfg), mailer, log),
		Validator:  validation.New(ValidationFrom(cfg), log),
	}, nil
}

func (s *Services) Close() {
	_ = s.Log.Close()
}
