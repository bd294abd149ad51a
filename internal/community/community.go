package community

// Community is external reference data; access configs refer to it by id and
// never embed it.
type Community struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Operator string `json:"operator"`
	Region   string `json:"region"`
	State    string `json:"state"`
}

// RepositoryAPI is the reference-data lookup surface.
type RepositoryAPI interface {
	GetAll() ([]*Community, error)
	GetByID(id string) (*Community, error)
	Count() (int64, error)
}

type ListResponse struct {
	Communities []*Community `json:"communities"`
	Total       int          `json:"total"`
}
