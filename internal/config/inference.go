package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "VERIDOC_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "VERIDOC_AGENT_BASE_URL"
	EnvAgentToken        = "VERIDOC_AGENT_TOKEN"
	EnvAgentDeployment   = "VERIDOC_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "VERIDOC_AGENT_API_VERSION"
	EnvAgentAuthType     = "VERIDOC_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "VERIDOC_AGENT_MODEL_NAME"

	EnvInferenceTimeout    = "VERIDOC_INFERENCE_TIMEOUT"
	EnvInferenceWorkers    = "VERIDOC_INFERENCE_WORKERS"
	EnvInferenceQueueDepth = "VERIDOC_INFERENCE_QUEUE_DEPTH"
)

// InferenceConfig holds the go-agents agent configuration plus the
// execution parameters of the verification pipeline: per-call timeout,
// worker pool size, and task queue depth.
type InferenceConfig struct {
	Agent      gaconfig.AgentConfig `toml:"agent"`
	Timeout    string               `toml:"timeout"`
	Workers    int                  `toml:"workers"`
	QueueDepth int                  `toml:"queue_depth"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *InferenceConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies the three-phase finalize pattern to the inference
// config and the nested go-agents AgentConfig: defaults, environment
// variable overrides, and validation.
func (c *InferenceConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	return finalizeAgent(&c.Agent)
}

// Merge overwrites non-zero fields from overlay.
func (c *InferenceConfig) Merge(overlay *InferenceConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.QueueDepth != 0 {
		c.QueueDepth = overlay.QueueDepth
	}
	c.Agent.Merge(&overlay.Agent)
}

func (c *InferenceConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.QueueDepth == 0 {
		c.QueueDepth = 64
	}
}

func (c *InferenceConfig) loadEnv() {
	if v := os.Getenv(EnvInferenceTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvInferenceWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvInferenceQueueDepth); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.QueueDepth = n
		}
	}
}

func (c *InferenceConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

func finalizeAgent(c *gaconfig.AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("agent name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("agent provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("agent provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("agent model required")
	}
	return nil
}
