package players

// Player represents a roster member eligible for simulation.
type Player struct {
	ID           string `json:"id"`
	TeamID       string `json:"teamId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Position     string `json:"position"`
	JerseyNumber string `json:"jerseyNumber"`
}

// FullName joins first and last name for play-by-play descriptions.
func (p Player) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
