package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"yoga_recommendation/catalog"
	"yoga_recommendation/embedding"
	"yoga_recommendation/logger"
	"yoga_recommendation/models"
	"yoga_recommendation/utils"
)

const (
	// Issue-to-contraindication similarity above this bar discards the
	// pose. The bar is low; exclusion errs toward hiding poses.
	contraindicationThreshold = 0.25

	weightGoalsBenefits    = 4
	weightPhysicalBenefits = 4
	weightMentalBenefits   = 4
	weightPhysicalMatch    = 2
	weightMentalMatch      = 2
	totalWeight            = weightGoalsBenefits + weightPhysicalBenefits + weightMentalBenefits + weightPhysicalMatch + weightMentalMatch

	topK = 10
)

// Engine ranks the pose catalog against a user profile. It holds the
// injected embedding capability and a read-only catalog reference (the
// caller owns catalog lifetime), plus a lazily populated cache of
// per-phrase embeddings shared across requests.
type Engine struct {
	embedder    embedding.Embedder
	catalog     *catalog.Catalog
	concurrency int

	mu         sync.RWMutex
	phraseVecs map[string][]float64
}

// queryEmbeddings are the three per-request vectors derived from the
// profile, one embedding call per category.
type queryEmbeddings struct {
	goals    []float64
	physical []float64
	mental   []float64
}

// NewEngine validates its collaborators and builds an engine. A nil
// embedder, an empty catalog or a dimension mismatch is a construction
// failure, not a condition checked per request.
func NewEngine(embedder embedding.Embedder, cat *catalog.Catalog, concurrency int) (*Engine, error) {
	if embedder == nil {
		return nil, fmt.Errorf("engine requires an embedder")
	}
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("engine requires a non-empty catalog")
	}
	if d := embedder.Dimension(); d > 0 && d != cat.Dimension {
		return nil, fmt.Errorf("embedder dimension %d does not match catalog dimension %d", d, cat.Dimension)
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Engine{
		embedder:    embedder,
		catalog:     cat,
		concurrency: concurrency,
		phraseVecs:  make(map[string][]float64),
	}, nil
}

// CatalogSize returns the number of loaded poses, for health reporting.
func (e *Engine) CatalogSize() int {
	return e.catalog.Len()
}

// Recommend filters and ranks the catalog for one profile. It returns at
// most 10 recommendations sorted by score descending (catalog order on
// ties). An empty result is success; only validation and query-embedding
// failures abort the request.
func (e *Engine) Recommend(ctx context.Context, profile *models.UserProfile) ([]models.Recommendation, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	q, err := e.deriveQueryEmbeddings(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("derive query embeddings: %w", err)
	}

	issues := make([]string, 0, len(profile.PhysicalIssues)+len(profile.MentalIssues))
	for _, p := range append(append([]string{}, profile.PhysicalIssues...), profile.MentalIssues...) {
		if n := utils.NormalizePhrase(p); n != "" {
			issues = append(issues, n)
		}
	}

	// Poses are independent: score them under a bounded semaphore into an
	// index-addressed slice so output order stays deterministic.
	results := make([]*models.Recommendation, e.catalog.Len())
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.concurrency)

	for i := range e.catalog.Poses {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			pose := &e.catalog.Poses[idx]

			excluded, err := e.isContraindicated(ctx, pose, issues)
			if err != nil {
				// Per-item faults never abort the ranking.
				logger.Warn("skipping pose after evaluation error", "pose", pose.Name, "error", err)
				return
			}
			if excluded {
				return
			}

			score := scorePose(q, pose)
			if score <= 0 {
				return
			}

			results[idx] = &models.Recommendation{
				Name:              pose.Name,
				Score:             roundScore(score),
				Benefits:          pose.Benefits,
				Contraindications: pose.Contraindications,
			}
		}(i)
	}
	wg.Wait()

	recommendations := make([]models.Recommendation, 0, len(results))
	for _, r := range results {
		if r != nil {
			recommendations = append(recommendations, *r)
		}
	}

	// Stable sort over a catalog-ordered slice: equal scores keep
	// catalog insertion order.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	if len(recommendations) > topK {
		recommendations = recommendations[:topK]
	}

	logger.Info("generated recommendations", "count", len(recommendations), "catalog_size", e.catalog.Len())
	return recommendations, nil
}

// validateProfile rejects profiles missing any required phrase list.
// Runs before any embedding call.
func validateProfile(profile *models.UserProfile) error {
	if profile == nil {
		return ErrInvalidProfile
	}
	if len(profile.Goals) == 0 || len(profile.PhysicalIssues) == 0 || len(profile.MentalIssues) == 0 {
		return ErrInvalidProfile
	}
	return nil
}

func (e *Engine) deriveQueryEmbeddings(ctx context.Context, profile *models.UserProfile) (*queryEmbeddings, error) {
	goals, err := e.embedder.Embed(ctx, utils.JoinPhrases(profile.Goals))
	if err != nil {
		return nil, err
	}
	physical, err := e.embedder.Embed(ctx, utils.JoinPhrases(profile.PhysicalIssues))
	if err != nil {
		return nil, err
	}
	mental, err := e.embedder.Embed(ctx, utils.JoinPhrases(profile.MentalIssues))
	if err != nil {
		return nil, err
	}
	return &queryEmbeddings{goals: goals, physical: physical, mental: mental}, nil
}

func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}
