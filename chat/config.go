package chat

import (
	"fmt"
	"strings"
	"time"

	openrouterx "deckpilot/pkg/openrouter"
)

// Role selects which model settings a component gets. The conversational
// loop and the pitch writer can run on different models.
type Role string

const (
	RoleChat  Role = "chat"
	RolePitch Role = "pitch"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	PitchModel       string  `envconfig:"PITCH_MODEL" split_words:"true"`
	PitchTemperature float32 `envconfig:"PITCH_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("openrouter api key is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("default model is required")
	}
	return nil
}

func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	if role == RolePitch {
		if v := strings.TrimSpace(c.PitchModel); v != "" {
			modelName = v
		}
		if c.PitchTemperature >= 0 {
			temp = c.PitchTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
