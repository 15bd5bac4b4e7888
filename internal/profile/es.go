// File: internal/profile/es.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"

	platformES "scholar_directory_backend/internal/platform/elasticsearch"
)

// SearchIndexer maintains the profiles search index. Documents are keyed by
// user ID so re-approvals overwrite the previous version in place.
type SearchIndexer struct {
	client *platformES.ESClientWrapper
	logger *zap.Logger
}

// NewSearchIndexer creates a SearchIndexer. The client may be nil, in which
// case every method reports ErrSearchUnavailable and callers fall back to
// the database.
func NewSearchIndexer(client *platformES.ESClientWrapper, logger *zap.Logger) *SearchIndexer {
	return &SearchIndexer{client: client, logger: logger.Named("profile_search")}
}

// ErrSearchUnavailable signals that the search index cannot serve the request.
var ErrSearchUnavailable = errors.New("profile search index unavailable")

func snapshotDoc(s *Snapshot) map[string]interface{} {
	links := make([]string, 0, len(s.Data.Links)*2)
	for _, l := range s.Data.Links {
		links = append(links, l.Label, l.URL)
	}
	projects := make([]string, 0, len(s.Data.Projects)*2)
	for _, p := range s.Data.Projects {
		projects = append(projects, p.Name, p.Description)
	}
	return map[string]interface{}{
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
}

// Index writes or overwrites the document for a published snapshot.
func (si *SearchIndexer) Index(ctx context.Context, s *Snapshot) error {
	if si.client == nil {
		return ErrSearchUnavailable
	}
	docBytes, err := json.Marshal(snapshotDoc(s))
	if err != nil {
		return fmt.Errorf("error marshalling profile document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      platformES.ProfilesIndexName,
		DocumentID: s.UserID.String(),
		Body:       strings.NewReader(string(docBytes)),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, si.client.Client)
	if err != nil {
		return fmt.Errorf("error indexing profile document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		si.logger.Error("Failed to index profile document",
			zap.String("userID", s.UserID.String()),
			zap.String("status", res.Status()),
		)
		return fmt.Errorf("failed to index profile document: status %s", res.Status())
	}
	return nil
}

// Delete removes the document for a user, tolerating missing documents.
func (si *SearchIndexer) Delete(ctx context.Context, userID uuid.UUID) error {
	if si.client == nil {
		return ErrSearchUnavailable
	}
	req := esapi.DeleteRequest{
		Index:      platformES.ProfilesIndexName,
		DocumentID: userID.String(),
	}
	res, err := req.Do(ctx, si.client.Client)
	if err != nil {
		return fmt.Errorf("error deleting profile document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("failed to delete profile document: status %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi-field query and returns matching user IDs in
// relevance order, plus the total hit count.
func (si *SearchIndexer) Search(ctx context.Context, term string, from, size int) ([]uuid.UUID, int64, error) {
	if si.client == nil {
		return nil, 0, ErrSearchUnavailable
	}

	body := map[string]interface{}{
		"from": from,
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     term,
				"fields":    []string{"name^3", "bio", "skills^2", "interests^2", "links", "projects", "fun_facts"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("error marshalling search body: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{platformES.ProfilesIndexName},
		Body:  strings.NewReader(string(bodyBytes)),
	}
	res, err := req.Do(ctx, si.client.Client)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing profile search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("profile search failed: status %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("error decoding profile search response: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, parseErr := uuid.Parse(hit.ID)
		if parseErr != nil {
			si.logger.Warn("Skipping search hit with non-UUID document ID", zap.String("docID", hit.ID))
			continue
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, parsed.Hits.Total.Value, nil
}
