package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const EnvPrefix = "KINDLE_SEND_"

// getenv collects parse errors so every bad variable is reported at once.
type getenv struct {
	errs []error
}

func (ge *getenv) Err() error {
	return errors.Join(ge.errs...)
}

type parseFunc[T any] func(s string) (T, error)

func getValue[T any](ge *getenv, key string, current T, parse parseFunc[T]) T {
	s, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || s == "" {
		return current
	}
	v, err := parse(s)
	if err != nil {
		ge.errs = append(ge.errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		return current
	}
	return v
}

func (ge *getenv) String(key string, current string) string {
	return getValue(ge, key, current, func(s string) (string, error) {
		return s, nil
	})
}

// Strings splits on commas and whitespace.
func (ge *getenv) Strings(key string, current []string) []string {
	return getValue(ge, key, current, func(s string) ([]string, error) {
		return strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}), nil
	})
}

func (ge *getenv) Int(key string, current int) int {
	return getValue(ge, key, current, strconv.Atoi)
}

func (ge *getenv) Int64(key string, current int64) int64 {
	return getValue(ge, key, current, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func (ge *getenv) Bool(key string, current bool) bool {
	return getValue(ge, key, current, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
		return false, fmt.Errorf("invalid boolean %q", s)
	})
}

func applyEnv(c *Config) error {
	var ge getenv

	c.Sender = ge.String("SENDER", c.Sender)
	c.Receiver = ge.String("RECEIVER", c.Receiver)
	c.StorePath = ge.String("STORE_PATH", c.StorePath)
	c.Password = ge.String("PASSWORD", c.Password)
	c.Server = ge.String("SMTP_SERVER", c.Server)
	c.Port = ge.Int("SMTP_PORT", c.Port)
	c.MailTimeout = ge.Int("MAIL_TIMEOUT", c.MailTimeout)

	c.AllowSendTo = ge.Bool("ALLOW_SEND_TO", c.AllowSendTo)
	c.SizeLimit = ge.Int64("SIZE_LIMIT", c.SizeLimit)
	c.PermittedExtensions = ge.Strings("PERMITTED_EXTENSIONS", c.PermittedExtensions)
	c.TempPath = ge.String("TEMP_PATH", c.TempPath)

	c.ServerAddr = ge.String("SERVER_ADDR", c.ServerAddr)
	c.PidFile = ge.String("PID_FILE", c.PidFile)

	c.EnableValidation = ge.Bool("ENABLE_VALIDATION", c.EnableValidation)
	c.ValidationURL = ge.String("VALIDATION_URL", c.ValidationURL)
	c.ValidationAPIKey = ge.String("VALIDATION_API_KEY", c.ValidationAPIKey)
	c.ValidationTimeout = ge.Int("VALIDATION_TIMEOUT", c.ValidationTimeout)
	c.ValidationInsecureTLS = ge.Bool("VALIDATION_INSECURE_TLS", c.ValidationInsecureTLS)

	c.LogPath = ge.String("LOG_PATH", c.LogPath)
	c.LogLevel = ge.String("LOG_LEVEL", c.LogLevel)

	return ge.Err()
}
