package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"surfwatch/internal/model"
)

// Config is the full application configuration, built once at startup.
//
// Values come from three layers, lowest precedence first: built-in
// defaults, an optional YAML file, and environment variables. A `.env`
// file, if present, is loaded into the environment before parsing.
type Config struct {
	// DateRangeStart / DateRangeEnd are the inclusive calendar-date
	// bounds of the polling window, in YYYY-MM-DD form. Both required.
	DateRangeStart string `env:"DATE_RANGE_START" yaml:"date_range_start"`
	DateRangeEnd   string `env:"DATE_RANGE_END" yaml:"date_range_end"`

	// EmailRecipients is the raw comma-separated recipient list.
	// Required; see Recipients for the parsed form.
	EmailRecipients string `env:"EMAIL_RECIPIENTS" yaml:"email_recipients"`

	// SMTPUser / SMTPPass are the SMTP submission credentials. Optional;
	// when absent (and no SendGrid key is set) the notifier degrades to
	// console output.
	SMTPUser string `env:"SMTP_USER" yaml:"smtp_user"`
	SMTPPass string `env:"SMTP_PASS" yaml:"smtp_pass"`

	// SMTPHost / SMTPPort identify the submission endpoint. The default
	// is Gmail's implicit-TLS endpoint.
	SMTPHost string `env:"SMTP_HOST" yaml:"smtp_host"`
	SMTPPort int    `env:"SMTP_PORT" yaml:"smtp_port"`

	// SendGridKey, if set, selects SendGrid as the mail transport
	// instead of SMTP. SendGridFrom is the verified sender address and
	// is required together with the key.
	SendGridKey  string `env:"SENDGRID_API_KEY" yaml:"sendgrid_api_key"`
	SendGridFrom string `env:"SENDGRID_FROM_EMAIL" yaml:"sendgrid_from_email"`

	// UseMockData selects the fixture fetch path instead of the live API.
	UseMockData bool `env:"USE_MOCK_DATA" yaml:"use_mock_data"`

	// StateFile is the path of the persisted seen-slot snapshot.
	StateFile string `env:"STATE_FILE" yaml:"state_file"`

	// MockDataFile is the fixture payload path used when UseMockData is set.
	MockDataFile string `env:"MOCK_DATA_FILE" yaml:"mock_data_file"`

	// LogLevel is DEBUG, INFO, or ERROR.
	LogLevel string `env:"LOG_LEVEL" yaml:"log_level"`

	// Range and Recipients are derived by Validate.
	Range      model.DateRange `yaml:"-"`
	Recipients []string        `yaml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		SMTPHost:     "smtp.gmail.com",
		SMTPPort:     465,
		StateFile:    "last_state.json",
		MockDataFile: "mock_data.json",
		LogLevel:     "INFO",
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled config files still behave correctly.
func (c *Config) Normalize() {
	if c.SMTPHost == "" {
		c.SMTPHost = "smtp.gmail.com"
	}
	if c.SMTPPort <= 0 {
		c.SMTPPort = 465
	}
	if c.StateFile == "" {
		c.StateFile = "last_state.json"
	}
	if c.MockDataFile == "" {
		c.MockDataFile = "mock_data.json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
}

// Load builds the configuration. path is an optional YAML file; an empty
// path skips the file layer, and a missing file at a non-empty path is an
// error (an explicitly named file should exist). Environment variables
// override file values. The result is normalized and validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s does not exist", path)
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required options and derives Range and Recipients.
// It must pass before any fetch is attempted.
func (c *Config) Validate() error {
	if c.DateRangeStart == "" || c.DateRangeEnd == "" {
		return errors.New("DATE_RANGE_START and DATE_RANGE_END must be set")
	}

	start, err := time.Parse(model.DateLayout, c.DateRangeStart)
	if err != nil {
		return fmt.Errorf("DATE_RANGE_START %q is not a valid YYYY-MM-DD date", c.DateRangeStart)
	}
	end, err := time.Parse(model.DateLayout, c.DateRangeEnd)
	if err != nil {
		return fmt.Errorf("DATE_RANGE_END %q is not a valid YYYY-MM-DD date", c.DateRangeEnd)
	}
	if end.Before(start) {
		return fmt.Errorf("DATE_RANGE_END %s is before DATE_RANGE_START %s", c.DateRangeEnd, c.DateRangeStart)
	}
	c.Range = model.DateRange{Start: start, End: end}

	c.Recipients = splitRecipients(c.EmailRecipients)
	if len(c.Recipients) == 0 {
		return errors.New("EMAIL_RECIPIENTS must be set")
	}

	if c.SendGridKey != "" && c.SendGridFrom == "" {
		return errors.New("SENDGRID_FROM_EMAIL must be set when SENDGRID_API_KEY is set")
	}

	return nil
}

// splitRecipients splits a comma-separated address list, trimming
// whitespace and dropping empty entries.
func splitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
