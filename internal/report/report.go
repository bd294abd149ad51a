package report

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ComponentType tags one dashboard building block inside a report layout.
type ComponentType string

const (
	ComponentChart ComponentType = "chart"
	ComponentKPI   ComponentType = "kpi"
	ComponentTable ComponentType = "table"
	ComponentText  ComponentType = "text"
)

func (t ComponentType) IsValid() bool {
	switch t {
	case ComponentChart, ComponentKPI, ComponentTable, ComponentText:
		return true
	default:
		return false
	}
}

// Component is one layout entry. Config is free-form and round-trips as-is.
type Component struct {
	ID     string         `json:"id"`
	Type   ComponentType  `json:"type"`
	Config map[string]any `json:"config"`
}

// Layout holds the ordered component list. Order is part of the
// serialization contract and must survive persistence round-trips.
type Layout struct {
	Components []Component `json:"components"`
}

// Value implements driver.Valuer so layouts persist as one JSON document.
func (l Layout) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *Layout) Scan(value interface{}) error {
	if value == nil {
		*l = Layout{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into report layout", value)
	}
}

// Validate checks every component carries a known type.
func (l Layout) Validate() error {
	for _, c := range l.Components {
		if !c.Type.IsValid() {
			return fmt.Errorf("unknown component type %q in component %s", c.Type, c.ID)
		}
	}
	return nil
}

// Permissions is the sharing metadata stored on each report. It is recorded
// but does not currently gate listing or edits.
type Permissions struct {
	IsPublic bool `json:"isPublic"`
}

// Report is a saved report or a template (read-only report derivative).
// Revision is a monotonically increasing counter compared on write so two
// sessions editing the same report cannot silently overwrite each other.
type Report struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	CreatedBy    string      `json:"createdBy"`
	LastModified time.Time   `json:"lastModified"`
	IsTemplate   bool        `json:"isTemplate"`
	Permissions  Permissions `json:"permissions"`
	Layout       Layout      `json:"layout"`
	Revision     int64       `json:"revision"`
}

// MatchesSearch applies the list filter: case-insensitive substring against
// name OR description.
func (r *Report) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.Name), needle) ||
		strings.Contains(strings.ToLower(r.Description), needle)
}
