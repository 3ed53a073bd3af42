package profile

// Profile is a player's public identity, read for invite summaries.
type Profile struct {
	ID    string
	Alias string
}
