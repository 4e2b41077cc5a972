// Package inference wraps the go-agents client behind a single Invoke
// contract consumed by the tool pipeline. The adapter owns per-call
// timeouts, transient-failure retries, and error classification; callers
// supply the resolved model selector and inference parameters.
package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/format"
)

const maxAttempts = 3

// Request describes a single model invocation. When ImageDataURI is set
// the vision endpoint is used, otherwise plain chat. Model overrides the
// base configuration's model name; Params are provider inference knobs.
type Request struct {
	Prompt       string
	SystemRole   string
	ImageDataURI string
	Model        string
	Params       map[string]float64
}

// Adapter is the model invocation boundary for the tool pipeline.
type Adapter interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

type agentAdapter struct {
	base    gaconfig.AgentConfig
	timeout time.Duration
	logger  *slog.Logger
}

// New creates an Adapter over the given base agent configuration.
func New(base gaconfig.AgentConfig, timeout time.Duration, logger *slog.Logger) Adapter {
	return &agentAdapter{
		base:    base,
		timeout: timeout,
		logger:  logger.With("system", "inference"),
	}
}

// Invoke sends the request to the model, retrying transient failures up
// to the attempt limit with the input unchanged. Exhausted retries
// surface as ErrTransport; permanent failures propagate on first sight.
func (a *agentAdapter) Invoke(ctx context.Context, req Request) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		content, err := a.call(callCtx, req)
		cancel()

		if err == nil {
			return content, nil
		}
		if errors.Is(err, ErrPermanent) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
		}

		lastErr = err
		a.logger.Warn("inference attempt failed",
			"attempt", attempt,
			"model", req.Model,
			"error", err,
		)
	}

	return "", fmt.Errorf("%w: %d attempts exhausted: %w", ErrTransport, maxAttempts, lastErr)
}

func (a *agentAdapter) call(ctx context.Context, req Request) (string, error) {
	cfg := a.configure(req)

	ag, err := agent.New(&cfg)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrPermanent, err)
	}

	prompt := composePrompt(req.SystemRole, req.Prompt)

	if req.ImageDataURI != "" {
		resp, err := ag.Vision(ctx, prompt, []format.Image{{URL: req.ImageDataURI}})
		if err != nil {
			return "", classify(err)
		}
		return resp.Text(), nil
	}

	resp, err := ag.Chat(ctx, prompt)
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

// configure copies the base agent configuration and applies the
// request's model selector and inference parameters.
func (a *agentAdapter) configure(req Request) gaconfig.AgentConfig {
	cfg := a.base

	provider := gaconfig.ProviderConfig{}
	if cfg.Provider != nil {
		provider = *cfg.Provider
	}
	provider.Options = make(map[string]any, len(req.Params))
	if cfg.Provider != nil {
		for k, v := range cfg.Provider.Options {
			provider.Options[k] = v
		}
	}
	for k, v := range req.Params {
		provider.Options[k] = v
	}
	cfg.Provider = &provider

	model := gaconfig.ModelConfig{}
	if cfg.Model != nil {
		model = *cfg.Model
	}
	if req.Model != "" {
		model.Name = req.Model
	}
	cfg.Model = &model

	return cfg
}

func composePrompt(role, prompt string) string {
	if role == "" {
		return prompt
	}
	return role + "\n\n" + prompt
}

// classify sorts invocation errors into transient and permanent. Client
// rejections never succeed on retry, so they are fatal to the workflow.
func classify(err error) error {
	msg := strings.ToLower(err.Error())

	permanent := []string{
		"unauthorized",
		"forbidden",
		"invalid request",
		"bad request",
		"status 400",
		"status 401",
		"status 403",
	}
	for _, marker := range permanent {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %w", ErrPermanent, err)
		}
	}

	return fmt.Errorf("%w: %w", ErrTransport, err)
}
