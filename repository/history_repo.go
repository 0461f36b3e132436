package repository

import (
	"encoding/json"

	"yoga_recommendation/db"
	"yoga_recommendation/models"
)

// SaveHistory records one served request: the submitted profile and the
// ranked results, both as JSON columns.
func SaveHistory(profile *models.UserProfile, results []models.Recommendation) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	resultsJSON, err := json.Marshal(map[string]any{"recommendations": results})
	if err != nil {
		return err
	}

	_, err = db.DB.Exec(`
		INSERT INTO recommendation_history (profile, results, generated_at)
		VALUES (CAST(? AS JSON), CAST(? AS JSON), NOW())
	`, string(profileJSON), string(resultsJSON))
	return err
}

// ListRecentHistory returns the newest entries, capped at limit.
func ListRecentHistory(limit int) ([]models.HistoryEntry, error) {
	// Format in SQL so the scan works with or without parseTime in the DSN.
	rows, err := db.DB.Query(`
		SELECT id, profile, results, DATE_FORMAT(generated_at, '%Y-%m-%dT%H:%i:%sZ')
		FROM recommendation_history
		ORDER BY generated_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var (
			entry       models.HistoryEntry
			profileJSON string
			resultsJSON string
		)
		if err := rows.Scan(&entry.ID, &profileJSON, &resultsJSON, &entry.GeneratedAt); err != nil {
			continue
		}

		if err := json.Unmarshal([]byte(profileJSON), &entry.Profile); err != nil {
			continue
		}
		var wrapped struct {
			Recommendations []models.Recommendation `json:"recommendations"`
		}
		if err := json.Unmarshal([]byte(resultsJSON), &wrapped); err != nil {
			continue
		}
		entry.Results = wrapped.Recommendations

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// PruneHistory deletes entries older than the retention window and
// returns how many rows were removed.
func PruneHistory(retentionDays int) (int64, error) {
	res, err := db.DB.Exec(`
		DELETE FROM recommendation_history
		WHERE generated_at < DATE_SUB(NOW(), INTERVAL ? DAY)
	`, retentionDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
