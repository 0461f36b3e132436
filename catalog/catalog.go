// Package catalog loads the precomputed pose table the scoring engine
// ranks against. Poses are immutable after load and shared read-only
// across requests.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pose is one catalog row: the display texts plus the four embedding
// vectors precomputed at catalog build time. The engine never recomputes
// these.
type Pose struct {
	Name              string `json:"name"`
	Benefits          string `json:"benefits"`
	Contraindications string `json:"contraindications"`

	BenefitsEmbedding          []float64 `json:"benefits_embedding"`
	ContraindicationsEmbedding []float64 `json:"contraindications_embedding"`
	TargetedPhysicalEmbedding  []float64 `json:"targeted_physical_embedding"`
	TargetedMentalEmbedding    []float64 `json:"targeted_mental_embedding"`
}

// Catalog is the loaded, validated pose table.
type Catalog struct {
	Poses     []Pose
	Dimension int
}

// Len returns the number of poses.
func (c *Catalog) Len() int {
	return len(c.Poses)
}

// Load reads the pose table from a JSON file and validates it. Any
// structural defect is a startup failure: the engine must not serve from
// an empty or partially embedded catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var poses []Pose
	if err := json.Unmarshal(data, &poses); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	return New(poses)
}

// New validates an in-memory pose table and wraps it in a Catalog.
func New(poses []Pose) (*Catalog, error) {
	if len(poses) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	dim := len(poses[0].BenefitsEmbedding)
	for i, p := range poses {
		if p.Name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		for field, emb := range map[string][]float64{
			"benefits_embedding":          p.BenefitsEmbedding,
			"contraindications_embedding": p.ContraindicationsEmbedding,
			"targeted_physical_embedding": p.TargetedPhysicalEmbedding,
			"targeted_mental_embedding":   p.TargetedMentalEmbedding,
		} {
			if len(emb) == 0 {
				return nil, fmt.Errorf("pose %q is missing %s", p.Name, field)
			}
			if len(emb) != dim {
				return nil, fmt.Errorf("pose %q %s has dimension %d, want %d", p.Name, field, len(emb), dim)
			}
		}
	}

	return &Catalog{Poses: poses, Dimension: dim}, nil
}
