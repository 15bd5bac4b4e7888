package esutil

import (
	"encoding/json"
	"errors"
	"fmt"

	"scholar_directory_backend/internal/profile"
)

// SnapshotToElasticsearchDoc converts a published profile snapshot to its
// Elasticsearch document representation. Only the publicly searchable fields
// are indexed; contact details stay out of the index.
func SnapshotToElasticsearchDoc(s *profile.Snapshot) (string, error) {
	if s == nil {
		return "", errors.New("snapshot cannot be nil")
	}

	links := make([]string, 0, len(s.Data.Links))
	for _, l := range s.Data.Links {
		links = append(links, l.Label, l.URL)
	}

	projects := make([]string, 0, len(s.Data.Projects)*2)
	for _, p := range s.Data.Projects {
		projects = append(projects, p.Name, p.Description)
	}

	doc := map[string]interface{}{
		"user_id":     s.UserID.String(),
		"slug":        s.Slug,
		"name":        s.Data.Profile.Name,
		"bio":         s.Data.Profile.Bio,
		"skills":      s.Data.Skills,
		"interests":   s.Data.Interests,
		"links":       links,
		"projects":    projects,
		"fun_facts":   s.Data.FunFacts.Values(),
		"approved_at": s.ApprovedAt,
		"updated_at":  s.UpdatedAt,
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling snapshot to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}
