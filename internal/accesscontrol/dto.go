package accesscontrol

// CheckResponse is the transport shape for a single access decision.
type CheckResponse struct {
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Allowed      bool   `json:"allowed"`
}

// SummaryResponse wraps the recomputed access summary.
type SummaryResponse struct {
	Role    string  `json:"role"`
	Summary Summary `json:"summary"`
}

// TemplatesResponse lists the immutable template catalog.
type TemplatesResponse struct {
	Templates []Template `json:"templates"`
}
