package configurations

import "context"

// System defines the public contract for configuration store operations.
type System interface {
	Handler() *Handler

	Group(ctx context.Context, group Group) ([]Configuration, error)
	ActiveModel(ctx context.Context) (*Configuration, error)
	InferenceParams(ctx context.Context) (map[string]float64, error)
	Create(ctx context.Context, cmd CreateCommand) (*Configuration, error)
	Update(ctx context.Context, cmd UpdateCommand) (*Configuration, error)
}
