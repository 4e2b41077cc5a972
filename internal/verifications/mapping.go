package verifications

import (
	"encoding/json"
	"fmt"

	"github.com/veridoc-io/veridoc/pkg/repository"
)

const projection = `
	id, status, file_key, document_type, steps, confidence,
	result_summary, needs_info_request, error_message, additional_info,
	created_at, updated_at`

func scanVerification(s repository.Scanner) (Verification, error) {
	var (
		v              Verification
		status         string
		steps          []byte
		additionalInfo []byte
	)

	err := s.Scan(
		&v.ID,
		&status,
		&v.FileKey,
		&v.DocumentType,
		&steps,
		&v.Confidence,
		&v.ResultSummary,
		&v.NeedsInfoRequest,
		&v.Error,
		&additionalInfo,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return v, err
	}

	v.Status, err = ParseStatus(status)
	if err != nil {
		return v, err
	}

	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &v.Steps); err != nil {
			return v, fmt.Errorf("decode steps: %w", err)
		}
	}
	if len(additionalInfo) > 0 {
		if err := json.Unmarshal(additionalInfo, &v.AdditionalInfo); err != nil {
			return v, fmt.Errorf("decode additional info: %w", err)
		}
	}

	return v, nil
}

func encodeJSONColumns(v *Verification) (steps, additionalInfo []byte, err error) {
	s := v.Steps
	if s == nil {
		s = []StepRecord{}
	}
	steps, err = json.Marshal(s)
	if err != nil {
		return nil, nil, fmt.Errorf("encode steps: %w", err)
	}

	a := v.AdditionalInfo
	if a == nil {
		a = []string{}
	}
	additionalInfo, err = json.Marshal(a)
	if err != nil {
		return nil, nil, fmt.Errorf("encode additional info: %w", err)
	}

	return steps, additionalInfo, nil
}
