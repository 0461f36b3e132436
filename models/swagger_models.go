package models

// APIResponse is the generic API envelope.
type APIResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// RecommendationResponse is the payload returned by POST /api/recommend.
type RecommendationResponse struct {
	RecommendedAsanas    []Recommendation `json:"recommended_asanas"`
	TotalRecommendations int              `json:"total_recommendations"`
	Message              string           `json:"message,omitempty"`
}

// HealthResponse is the payload returned by GET /health.
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	ModelLoaded bool   `json:"model_loaded" example:"true"`
	DataLoaded  bool   `json:"data_loaded" example:"true"`
	TotalPoses  int    `json:"total_poses" example:"120"`
}
