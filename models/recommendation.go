package models

// Recommendation is one ranked pose in the response. Score is the weighted
// similarity rounded to 3 decimals; Benefits and Contraindications pass
// through from the catalog unmodified.
type Recommendation struct {
	Name              string  `json:"name"`
	Score             float64 `json:"score"`
	Benefits          string  `json:"benefits"`
	Contraindications string  `json:"contraindications"`
}

// HistoryEntry is one persisted recommendation request.
type HistoryEntry struct {
	ID          int64            `json:"id"`
	Profile     UserProfile      `json:"profile"`
	Results     []Recommendation `json:"results"`
	GeneratedAt string           `json:"generated_at"`
}
