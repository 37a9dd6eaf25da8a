package teams

// Team represents a franchise participating in the simulated league.
// Kept in its own package to keep domain models modular across the engine,
// scheduler, and HTTP layers.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Abbreviation string `json:"abbreviation"`
}

// DisplayName returns "City Name" when a city is set, otherwise the name alone.
func (t Team) DisplayName() string {
	if t.City == "" {
		return t.Name
	}
	return t.City + " " + t.Name
}
