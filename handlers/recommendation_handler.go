package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"yoga_recommendation/config"
	_ "yoga_recommendation/docs" // swagger docs
	"yoga_recommendation/logger"
	"yoga_recommendation/models"
	"yoga_recommendation/repository"
	"yoga_recommendation/services"
	"yoga_recommendation/utils"
)

// Recommender is the slice of the scoring engine the handlers consume.
type Recommender interface {
	Recommend(ctx context.Context, profile *models.UserProfile) ([]models.Recommendation, error)
	CatalogSize() int
}

const noMatchMessage = "No suitable yoga poses found for your profile. Please try adjusting your goals or issues."

// RootHandler godoc
// @Summary Service banner
// @Description Confirms the recommendation API is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "running"
// @Router / [get]
func RootHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"message": "Yoga Recommendation API is running!",
		"status":  "healthy",
	})
}

// HealthHandler godoc
// @Summary Health check
// @Description Reports embedding model and catalog liveness
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse "healthy"
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request, engine Recommender) {
	utils.WriteSuccessResponse(w, models.HealthResponse{
		Status:      "healthy",
		ModelLoaded: true,
		DataLoaded:  engine.CatalogSize() > 0,
		TotalPoses:  engine.CatalogSize(),
	})
}

// RecommendHandler godoc
// @Summary Generate yoga pose recommendations
// @Description Ranks the pose catalog against the submitted profile. Poses conflicting with stated physical or mental issues are excluded; the rest are scored by weighted embedding similarity. An empty result is a successful response, not an error.
// @Tags recommendation
// @Accept json
// @Produce json
// @Param profile body models.UserProfile true "user profile"
// @Success 200 {object} models.APIResponse "ranked recommendations"
// @Failure 400 {object} models.APIResponse "invalid profile"
// @Failure 500 {object} models.APIResponse "server error"
// @Router /api/recommend [post]
func RecommendHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config, engine Recommender) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		utils.WriteErrorResponse(w, models.CodeInvalidParams, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	recommendations, err := engine.Recommend(r.Context(), &profile)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProfile) {
			utils.WriteCustomErrorResponse(w, models.CodeInvalidProfile, err.Error(), map[string]interface{}{})
			return
		}
		logger.Error("recommendation request failed", "error", err)
		utils.WriteErrorResponse(w, models.CodeRecommendGenError, map[string]interface{}{})
		return
	}

	// History is additive: a write failure never fails the request.
	if cfg.HistoryEnabled() {
		if err := repository.SaveHistory(&profile, recommendations); err != nil {
			logger.Warn("failed to save recommendation history", "error", err)
		}
	}

	resp := models.RecommendationResponse{
		RecommendedAsanas:    recommendations,
		TotalRecommendations: len(recommendations),
	}
	if len(recommendations) == 0 {
		resp.RecommendedAsanas = []models.Recommendation{}
		resp.Message = noMatchMessage
	}
	utils.WriteSuccessResponse(w, resp)
}

// HistoryHandler godoc
// @Summary List recent recommendation requests
// @Description Returns the most recently served profiles and their results; requires history storage to be configured
// @Tags recommendation
// @Produce json
// @Success 200 {object} models.APIResponse "recent history"
// @Failure 500 {object} models.APIResponse "server error"
// @Router /api/recommendation/history [get]
func HistoryHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config) {
	if !cfg.HistoryEnabled() {
		utils.WriteErrorResponse(w, models.CodeNoHistoryData, map[string]interface{}{})
		return
	}

	entries, err := repository.ListRecentHistory(cfg.History.ListLimit)
	if err != nil {
		utils.HandleServiceError(w, err, models.CodeNoHistoryData)
		return
	}
	if len(entries) == 0 {
		utils.WriteErrorResponse(w, models.CodeNoHistoryData, map[string]interface{}{})
		return
	}

	utils.WriteSuccessResponse(w, entries)
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, engine Recommender) {
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/", RootHandler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		HealthHandler(w, r, engine)
	})

	r.Post("/api/recommend", func(w http.ResponseWriter, r *http.Request) {
		RecommendHandler(w, r, cfg, engine)
	})

	r.Get("/api/recommendation/history", func(w http.ResponseWriter, r *http.Request) {
		HistoryHandler(w, r, cfg)
	})
}
