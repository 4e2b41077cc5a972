package configurations

// Default model selector used when no record in the model group is active.
// The store must always be able to pick a model.
const (
	DefaultModelName  = "LITE"
	DefaultModelValue = "amazon.nova-lite-v1:0"
)

// DefaultInferenceParams are served when the inference group holds no records.
func DefaultInferenceParams() map[string]float64 {
	return map[string]float64{
		"max_new_tokens": 3000,
		"top_p":          0.1,
		"top_k":          20,
		"temperature":    0.3,
	}
}
