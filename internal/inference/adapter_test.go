package inference

import (
	"errors"
	"testing"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unauthorized", err: errors.New("request unauthorized"), want: ErrPermanent},
		{name: "status 401", err: errors.New("unexpected status 401"), want: ErrPermanent},
		{name: "status 403", err: errors.New("unexpected status 403"), want: ErrPermanent},
		{name: "bad request", err: errors.New("bad request: missing field"), want: ErrPermanent},
		{name: "invalid request", err: errors.New("invalid request body"), want: ErrPermanent},
		{name: "timeout", err: errors.New("context deadline exceeded"), want: ErrTransport},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: ErrTransport},
		{name: "server error", err: errors.New("unexpected status 503"), want: ErrTransport},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.err)
			if !errors.Is(got, tc.want) {
				t.Errorf("classify(%v) = %v, want %v", tc.err, got, tc.want)
			}
			if !errors.Is(got, tc.err) {
				t.Errorf("classify(%v) dropped the original error", tc.err)
			}
		})
	}
}

func TestComposePrompt(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		prompt string
		want   string
	}{
		{
			name:   "role prefixed",
			role:   "You are an expert.",
			prompt: "Classify this document.",
			want:   "You are an expert.\n\nClassify this document.",
		},
		{
			name:   "empty role omitted",
			role:   "",
			prompt: "Classify this document.",
			want:   "Classify this document.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := composePrompt(tc.role, tc.prompt); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConfigureOverridesModelAndParams(t *testing.T) {
	base := gaconfig.AgentConfig{
		Name: "veridoc",
		Provider: &gaconfig.ProviderConfig{
			Name:    "bedrock",
			BaseURL: "https://bedrock.example.test",
			Options: map[string]any{"auth_type": "iam"},
		},
		Model: &gaconfig.ModelConfig{Name: "amazon.nova-micro-v1:0"},
	}

	a := &agentAdapter{base: base, timeout: time.Minute}

	cfg := a.configure(Request{
		Model:  "amazon.nova-pro-v1:0",
		Params: map[string]float64{"temperature": 0.3, "top_p": 0.1},
	})

	if cfg.Model.Name != "amazon.nova-pro-v1:0" {
		t.Errorf("model = %s, want request override", cfg.Model.Name)
	}
	if cfg.Provider.Options["auth_type"] != "iam" {
		t.Error("base provider option lost in merge")
	}
	if cfg.Provider.Options["temperature"] != 0.3 {
		t.Errorf("temperature = %v, want 0.3", cfg.Provider.Options["temperature"])
	}

	// the base must not be mutated by per-request configuration
	if base.Model.Name != "amazon.nova-micro-v1:0" {
		t.Errorf("base model mutated to %s", base.Model.Name)
	}
	if _, ok := base.Provider.Options["temperature"]; ok {
		t.Error("base provider options mutated by request params")
	}
}

func TestConfigureWithoutBaseModel(t *testing.T) {
	a := &agentAdapter{base: gaconfig.AgentConfig{Name: "veridoc"}, timeout: time.Minute}

	cfg := a.configure(Request{Model: "amazon.nova-lite-v1:0"})

	if cfg.Model == nil || cfg.Model.Name != "amazon.nova-lite-v1:0" {
		t.Errorf("model = %+v, want request model", cfg.Model)
	}
	if cfg.Provider == nil || cfg.Provider.Options == nil {
		t.Fatal("provider options not initialized")
	}
}
