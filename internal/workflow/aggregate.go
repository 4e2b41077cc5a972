package workflow

import (
	"encoding/json"
	"strings"

	"github.com/veridoc-io/veridoc/internal/verifications"
)

var needsInfoMarkers = []string{
	"need more information",
	"additional information needed",
}

// NeedsInfo inspects the accumulated tool narratives for the
// insufficient-information signal. Checked once after the full pipeline
// rather than per tool, since any tool may surface the need in its
// narrative text. Returns the matching narrative as the request text.
func NeedsInfo(narratives []string) (string, bool) {
	for _, narrative := range narratives {
		lower := strings.ToLower(narrative)
		for _, marker := range needsInfoMarkers {
			if strings.Contains(lower, marker) {
				return narrative, true
			}
		}
	}
	return "", false
}

// Aggregate computes the workflow-level verdict from the recorded step
// log. Confidence is the maximum observed across all step outputs, not
// an average: a single highly confident tool is treated as sufficient
// signal. Document type is the first one reported in tool order; the
// summary is the raw narrative of the final reconciling step.
func Aggregate(v *verifications.Verification, summary string) Verdict {
	verdict := Verdict{Summary: summary}

	for _, step := range v.Steps {
		var payload struct {
			DocumentType string          `json:"document_type"`
			Confidence   json.RawMessage `json:"confidence"`
		}
		if err := json.Unmarshal(step.Output, &payload); err != nil {
			continue
		}

		if verdict.DocumentType == "" && payload.DocumentType != "" && payload.DocumentType != "unknown" {
			verdict.DocumentType = payload.DocumentType
		}

		for _, c := range confidences(payload.Confidence) {
			if c > verdict.Confidence {
				verdict.Confidence = c
			}
		}
	}

	return verdict
}

// confidences flattens a step's confidence field, which is a scalar for
// most tools and a per-field map for extract.
func confidences(raw json.RawMessage) []float64 {
	if len(raw) == 0 {
		return nil
	}

	var scalar float64
	if err := json.Unmarshal(raw, &scalar); err == nil {
		return []float64{scalar}
	}

	var perField map[string]float64
	if err := json.Unmarshal(raw, &perField); err == nil {
		values := make([]float64, 0, len(perField))
		for _, v := range perField {
			values = append(values, v)
		}
		return values
	}

	return nil
}
