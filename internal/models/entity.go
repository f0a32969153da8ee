package models

// EntitySummary is one row of a ListEntities response, used for listing
// display only; the reconciliation core never consumes it.
type EntitySummary struct {
	ID            string `json:"entity_id"`
	Name          string `json:"name"`
	Visibility    string `json:"visibility"`
	LastChangedAt string `json:"last_changed"`
}
