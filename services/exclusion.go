package services

import (
	"context"
	"strings"

	"yoga_recommendation/catalog"
)

// isContraindicated decides whether a pose conflicts with any stated
// issue. Each phrase gets a cheap lexical test first; only phrases that
// miss lexically pay for an embedding comparison. Any test firing
// short-circuits the remaining phrases.
func (e *Engine) isContraindicated(ctx context.Context, pose *catalog.Pose, issues []string) (bool, error) {
	contraText := strings.ToLower(pose.Contraindications)

	for _, issue := range issues {
		// Lexical: the issue is listed verbatim (e.g. "knee injury").
		if contraText != "" && strings.Contains(contraText, issue) {
			return true, nil
		}

		// Semantic: paraphrases ("bad knees" vs "knee pain") that the
		// substring test misses.
		vec, err := e.phraseVector(ctx, issue)
		if err != nil {
			return false, err
		}
		if CosineSimilarity(vec, pose.ContraindicationsEmbedding) > contraindicationThreshold {
			return true, nil
		}
	}

	return false, nil
}

// phraseVector returns the embedding for a normalized issue phrase,
// embedding it at most once per process. The cache turns the
// O(items x phrases) call count of the naive loop into O(unique phrases).
func (e *Engine) phraseVector(ctx context.Context, phrase string) ([]float64, error) {
	e.mu.RLock()
	vec, ok := e.phraseVecs[phrase]
	e.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := e.embedder.Embed(ctx, phrase)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.phraseVecs[phrase] = vec
	e.mu.Unlock()
	return vec, nil
}
