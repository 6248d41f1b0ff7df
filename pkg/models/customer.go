package models

// Customer is a read model over the ERP customers table.
// The engine never writes customer rows.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CustomerMatch is the entity resolver's successful outcome: the token
// that matched and the customers it matched against.
type CustomerMatch struct {
	Keyword string     `json:"keyword"`
	Matches []Customer `json:"matches"`
}

// IDs returns the matched customer ids in match order.
func (m *CustomerMatch) IDs() []int64 {
	ids := make([]int64, len(m.Matches))
	for i, c := range m.Matches {
		ids[i] = c.ID
	}
	return ids
}
