package models

// UserProfile is the per-request input describing the practitioner.
// Age, Height, Weight and Level are accepted and carried through but are
// not consumed by the current scoring formula; they are kept in the data
// model (and persisted with history) so future ranking factors can use
// them without an API change.
type UserProfile struct {
	Age            int      `json:"age" example:"30"`
	Height         int      `json:"height" example:"175"`
	Weight         int      `json:"weight" example:"70"`
	Goals          []string `json:"goals" example:"flexibility,stress relief"`
	PhysicalIssues []string `json:"physical_issues" example:"lower back pain"`
	MentalIssues   []string `json:"mental_issues" example:"anxiety"`
	Level          string   `json:"level" example:"beginner"`
}
