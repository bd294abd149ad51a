package report

// CreateDTO is the transport shape for creating a report.
type CreateDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	return nil
}

// UpdateDTO carries an edit. Revision must match the stored record or the
// write is rejected as a conflict.
type UpdateDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsPublic    *bool   `json:"is_public,omitempty"`
	Layout      *Layout `json:"layout,omitempty"`
	Revision    int64   `json:"revision"`
}

func (d UpdateDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.Revision < 1 {
		return ValidationError{Msg: "revision is required"}
	}
	if d.Layout != nil {
		if err := d.Layout.Validate(); err != nil {
			return ValidationError{Msg: err.Error()}
		}
	}
	return nil
}

// CreateFromTemplateDTO starts a new report from a template's layout.
type CreateFromTemplateDTO struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
}

func (d CreateFromTemplateDTO) Validate() error {
	if d.TemplateID == "" {
		return ValidationError{Msg: "template_id is required"}
	}
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	return nil
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

type ListResponse struct {
	Reports []*Report `json:"reports"`
}
