package configurations

import "github.com/veridoc-io/veridoc/pkg/repository"

const projection = `group_key, name, value, description, active, created_at, updated_at`

func scanConfiguration(s repository.Scanner) (Configuration, error) {
	var c Configuration
	err := s.Scan(
		&c.Group,
		&c.Name,
		&c.Value,
		&c.Description,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
