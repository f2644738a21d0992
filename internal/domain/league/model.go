package league

import "fmt"

// League is one competition tracked by the ingestion pipeline. ExternalID is the
// upstream provider's identifier and the upsert key; ID is the durable internal id.
type League struct {
	ID         int64
	ExternalID string
	Name       string
	Slug       string
	Country    string
}

func (l League) Validate() error {
	if l.ExternalID == "" {
		return fmt.Errorf("league external id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
