package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding an optional YAML config path.
const PathEnv = "STOCK_ALERT_CONFIG"

const (
	ProviderYahoo   = "yahoo"
	ProviderPolygon = "polygon"
)

type Config struct {
	Environment string   `yaml:"environment" default:"production" validate:"required"`
	Symbols     []string `yaml:"symbols" default:"[\"AAPL\",\"MSFT\",\"TSLA\",\"AMZN\",\"GOOGL\"]" validate:"min=1,dive,required"`
	Log         struct {
		Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format     string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output     string `yaml:"output" default:"stdout"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"log"`
	Signal struct {
		Window               int     `yaml:"window" default:"20" validate:"gt=0"`
		VolumeRatioThreshold float64 `yaml:"volume_ratio_threshold" default:"1.5" validate:"gte=0"`
	} `yaml:"signal"`
	Market struct {
		Provider  string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo polygon"`
		BaseURL   string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"required,url"`
		Timeout   time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
		UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0"`
	} `yaml:"market"`
	News struct {
		BaseURL  string        `yaml:"base_url" default:"https://newsapi.org" validate:"required,url"`
		PageSize int           `yaml:"page_size" default:"3" validate:"gt=0,lte=100"`
		Timeout  time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
	} `yaml:"news"`
	SMS struct {
		Timeout time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
	} `yaml:"sms"`
	Metrics struct {
		PushgatewayURL string `yaml:"pushgateway_url" validate:"omitempty,url"`
		Job            string `yaml:"job" default:"stock_alert" validate:"required"`
	} `yaml:"metrics"`

	// Secrets only ever come from the environment.
	Secrets Secrets `yaml:"-"`
}

// Secrets are the credentials read from the process environment.
type Secrets struct {
	NewsAPIKey       string `envconfig:"NEWS_API_KEY"`
	PolygonAPIKey    string `envconfig:"POLYGON_API_KEY"`
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromPhone  string `envconfig:"TWILIO_FROM_PHONE"`
	TwilioToPhone    string `envconfig:"TWILIO_TO_PHONE"`
}

// Default returns a configuration populated only with defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load applies defaults, overlays the YAML file at path (when path is not
// empty) and validates the result.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config like Load and fills Secrets from the environment.
// A .env file in the working directory is honoured when present.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &c.Secrets); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := c.validateSecrets(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func (c *Config) validateSecrets() error {
	if c.Market.Provider == ProviderPolygon && c.Secrets.PolygonAPIKey == "" {
		return fmt.Errorf("POLYGON_API_KEY is required when market.provider is %q", ProviderPolygon)
	}
	return nil
}

// NewsEnabled reports whether headline enrichment is configured.
func (c *Config) NewsEnabled() bool { return c.Secrets.NewsAPIKey != "" }
