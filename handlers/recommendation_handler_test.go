package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"yoga_recommendation/config"
	"yoga_recommendation/logger"
	"yoga_recommendation/models"
	"yoga_recommendation/services"
)

type fakeEngine struct {
	recs []models.Recommendation
	err  error
	size int

	lastProfile *models.UserProfile
}

func (f *fakeEngine) Recommend(_ context.Context, profile *models.UserProfile) ([]models.Recommendation, error) {
	f.lastProfile = profile
	if f.err != nil {
		return nil, f.err
	}
	return f.recs, nil
}

func (f *fakeEngine) CatalogSize() int { return f.size }

func newTestRouter(t *testing.T, engine Recommender) *chi.Mux {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	if err := logger.Init(cfg); err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, cfg, engine)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return rec, envelope
}

func validProfile() models.UserProfile {
	return models.UserProfile{
		Age:            30,
		Height:         175,
		Weight:         70,
		Goals:          []string{"relax"},
		PhysicalIssues: []string{"back pain"},
		MentalIssues:   []string{"anxiety"},
		Level:          "beginner",
	}
}

func TestRecommendHandlerSuccess(t *testing.T) {
	engine := &fakeEngine{
		recs: []models.Recommendation{
			{Name: "Balasana", Score: 0.2, Benefits: "calms mind", Contraindications: "knee injury"},
		},
		size: 1,
	}
	router := newTestRouter(t, engine)

	_, envelope := doJSON(t, router, "POST", "/api/recommend", validProfile())
	if envelope.Code != models.CodeSuccess {
		t.Fatalf("code = %d, want success (message %q)", envelope.Code, envelope.Message)
	}

	data, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatal(err)
	}
	var resp models.RecommendationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if resp.TotalRecommendations != 1 || len(resp.RecommendedAsanas) != 1 {
		t.Errorf("unexpected payload: %+v", resp)
	}
	if resp.RecommendedAsanas[0].Name != "Balasana" {
		t.Errorf("name = %q", resp.RecommendedAsanas[0].Name)
	}
	if engine.lastProfile == nil || engine.lastProfile.Goals[0] != "relax" {
		t.Errorf("profile not forwarded to engine: %+v", engine.lastProfile)
	}
}

func TestRecommendHandlerEmptyResult(t *testing.T) {
	router := newTestRouter(t, &fakeEngine{recs: nil, size: 1})

	_, envelope := doJSON(t, router, "POST", "/api/recommend", validProfile())
	if envelope.Code != models.CodeSuccess {
		t.Fatalf("empty result must be success, got code %d", envelope.Code)
	}

	data, _ := json.Marshal(envelope.Data)
	var resp models.RecommendationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if resp.TotalRecommendations != 0 {
		t.Errorf("total = %d, want 0", resp.TotalRecommendations)
	}
	if resp.RecommendedAsanas == nil {
		t.Error("recommended_asanas must be an empty list, not null")
	}
	if resp.Message == "" {
		t.Error("empty result should carry the guidance message")
	}
}

func TestRecommendHandlerInvalidProfile(t *testing.T) {
	router := newTestRouter(t, &fakeEngine{err: services.ErrInvalidProfile, size: 1})

	_, envelope := doJSON(t, router, "POST", "/api/recommend", models.UserProfile{Goals: nil})
	if envelope.Code != models.CodeInvalidProfile {
		t.Errorf("code = %d, want %d", envelope.Code, models.CodeInvalidProfile)
	}
}

func TestRecommendHandlerEngineFailure(t *testing.T) {
	router := newTestRouter(t, &fakeEngine{err: errors.New("embedding service down"), size: 1})

	_, envelope := doJSON(t, router, "POST", "/api/recommend", validProfile())
	if envelope.Code != models.CodeRecommendGenError {
		t.Errorf("code = %d, want %d", envelope.Code, models.CodeRecommendGenError)
	}
}

func TestRecommendHandlerMalformedBody(t *testing.T) {
	router := newTestRouter(t, &fakeEngine{size: 1})

	req := httptest.NewRequest("POST", "/api/recommend", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Code != models.CodeInvalidParams {
		t.Errorf("code = %d, want %d", envelope.Code, models.CodeInvalidParams)
	}
}

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(t, &fakeEngine{size: 42})

	rec, envelope := doJSON(t, router, "GET", "/health", nil)
	if rec.Code != http.StatusOK || envelope.Code != models.CodeSuccess {
		t.Fatalf("health failed: http %d, code %d", rec.Code, envelope.Code)
	}

	data, _ := json.Marshal(envelope.Data)
	var health models.HealthResponse
	if err := json.Unmarshal(data, &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || !health.ModelLoaded || !health.DataLoaded || health.TotalPoses != 42 {
		t.Errorf("unexpected health payload: %+v", health)
	}
}

func TestRootHandler(t *testing.T) {
	router := newTestRouter(t, &fakeEngine{size: 1})

	_, envelope := doJSON(t, router, "GET", "/", nil)
	if envelope.Code != models.CodeSuccess {
		t.Errorf("code = %d, want success", envelope.Code)
	}
}

func TestHistoryHandlerDisabled(t *testing.T) {
	router := newTestRouter(t, &fakeEngine{size: 1})

	_, envelope := doJSON(t, router, "GET", "/api/recommendation/history", nil)
	if envelope.Code != models.CodeNoHistoryData {
		t.Errorf("code = %d, want %d", envelope.Code, models.CodeNoHistoryData)
	}
}
