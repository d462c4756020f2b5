package service

import (
	"context"

	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/repository"
	es "github.com/thomaslittle/usrp-backend/pkg/elasticsearch"
	pkglogger "github.com/thomaslittle/usrp-backend/pkg/logger"
)

// ContentIndex is the Elasticsearch index for content items
const ContentIndex = "usrp_content"

// ContentDocument is the shape indexed in Elasticsearch. Which fields are
// full-text-searchable is declared here, in the index mapping, not in the
// content service.
type ContentDocument struct {
	ContentID  string   `json:"content_id"`
	Department string   `json:"department"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Body       string   `json:"body"`
	Type       string   `json:"type"`
	Status     string   `json:"status"`
	Tags       []string `json:"tags"`
	UpdatedAt  string   `json:"updated_at"`
}

// SearchService provides full-text content search through Elasticsearch,
// degrading to a database LIKE scan when ES is unavailable.
type SearchService struct {
	esClient *es.Client
	repo     repository.ContentRepository
}

// NewSearchService creates a new SearchService. esClient may be nil, in
// which case every search falls back to the repository scan.
func NewSearchService(esClient *es.Client, repo repository.ContentRepository) *SearchService {
	svc := &SearchService{esClient: esClient, repo: repo}
	if esClient != nil {
		if err := svc.ensureIndex(context.Background()); err != nil {
			pkglogger.GetLogger().Error().Err(err).Msg("failed to create content index")
		}
	}
	return svc
}

func (s *SearchService) ensureIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"content_id": map[string]interface{}{"type": "keyword"},
				"department": map[string]interface{}{"type": "keyword"},
				"title":      map[string]interface{}{"type": "text"},
				"slug":       map[string]interface{}{"type": "keyword"},
				"body":       map[string]interface{}{"type": "text"},
				"type":       map[string]interface{}{"type": "keyword"},
				"status":     map[string]interface{}{"type": "keyword"},
				"tags":       map[string]interface{}{"type": "keyword"},
				"updated_at": map[string]interface{}{"type": "date"},
			},
		},
	}
	return s.esClient.EnsureIndex(ctx, ContentIndex, mapping)
}

// IndexContent writes or refreshes one content item in the search index
func (s *SearchService) IndexContent(ctx context.Context, item *domain.ContentItem) error {
	if s.esClient == nil {
		return nil
	}
	doc := &ContentDocument{
		ContentID:  item.ID,
		Department: item.Department,
		Title:      item.Title,
		Slug:       item.Slug,
		Body:       item.Body,
		Type:       item.Type,
		Status:     item.Status,
		Tags:       item.Tags,
		UpdatedAt:  item.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	return s.esClient.IndexDocument(ctx, ContentIndex, item.ID, doc)
}

// DeleteContent removes one content item from the search index
func (s *SearchService) DeleteContent(ctx context.Context, contentID string) error {
	if s.esClient == nil {
		return nil
	}
	return s.esClient.DeleteDocument(ctx, ContentIndex, contentID)
}

// SearchContent runs a full-text query over title, body and tags. Falls
// back to the repository LIKE scan when ES is not configured or errors.
func (s *SearchService) SearchContent(ctx context.Context, department, keyword string, page, perPage int) ([]*domain.ContentItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	if s.esClient == nil {
		return s.repo.Search(department, keyword, page, perPage)
	}

	must := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keyword,
				"fields": []string{"title^3", "tags^2", "body"},
			},
		},
	}
	if department != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"department": department},
		})
	}
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"title": map[string]interface{}{},
				"body":  map[string]interface{}{"fragment_size": 150},
			},
		},
	}

	resp, err := s.esClient.Search(ctx, ContentIndex, query, (page-1)*perPage, perPage)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("elasticsearch query failed, falling back to DB scan")
		return s.repo.Search(department, keyword, page, perPage)
	}

	// Hydrate from the database so results reflect the source of truth
	items := make([]*domain.ContentItem, 0, len(resp.Results))
	for _, hit := range resp.Results {
		item, err := s.repo.FindByID(hit.ID)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, resp.Total, nil
}
