package prompts

import "github.com/veridoc-io/veridoc/pkg/repository"

const projection = `id, role, tasks, active, created_at, updated_at`

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Role,
		&p.Tasks,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
