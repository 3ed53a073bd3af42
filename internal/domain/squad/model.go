package squad

// Squad is the roster-owning side of an invite. Squads are managed by the
// squad collaborator; this service reads them for display only.
type Squad struct {
	ID       string
	Name     string
	Tag      string
	IsActive bool
}
