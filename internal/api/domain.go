package api

import (
	"github.com/veridoc-io/veridoc/internal/configurations"
	"github.com/veridoc-io/veridoc/internal/inference"
	"github.com/veridoc-io/veridoc/internal/prompts"
	"github.com/veridoc-io/veridoc/internal/verifications"
	"github.com/veridoc-io/veridoc/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Verifications  verifications.System
	Prompts        prompts.System
	Configurations configurations.System
	Orchestrator   *workflow.Orchestrator
}

// NewDomain creates all domain systems from the API runtime and wires
// the workflow orchestrator over them.
func NewDomain(runtime *Runtime) *Domain {
	conn := runtime.Database.Connection()

	verificationsSystem := verifications.New(
		conn,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		conn,
		runtime.Logger,
		runtime.Pagination,
	)

	configurationsSystem := configurations.New(
		conn,
		runtime.Logger,
	)

	adapter := inference.New(
		runtime.Inference.Agent,
		runtime.Inference.TimeoutDuration(),
		runtime.Logger,
	)

	orchestrator := workflow.NewOrchestrator(&workflow.Runtime{
		Adapter:        adapter,
		Verifications:  verificationsSystem,
		Prompts:        promptsSystem,
		Configurations: configurationsSystem,
		Storage:        runtime.Storage,
		Pool:           runtime.Tasks,
		Logger:         runtime.Logger,
	})

	return &Domain{
		Verifications:  verificationsSystem,
		Prompts:        promptsSystem,
		Configurations: configurationsSystem,
		Orchestrator:   orchestrator,
	}
}
