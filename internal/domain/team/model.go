package team

import "fmt"

// Team is one club as reported by the upstream provider.
type Team struct {
	ID         int64
	ExternalID string
	Name       string
	Slug       string
	LogoURL    string
}

func (t Team) Validate() error {
	if t.ExternalID == "" {
		return fmt.Errorf("team external id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
