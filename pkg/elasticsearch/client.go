package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Client is a thin typed wrapper over go-elasticsearch for the content
// search index: document upsert/delete plus a query call that returns hit
// ids for database hydration.
type Client struct {
	es *elasticsearch.Client
}

// NewClient connects to Elasticsearch and verifies the cluster responds.
func NewClient(addresses []string, username, password string) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch connect: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch connect: %s", res.String())
	}

	return &Client{es: es}, nil
}

// apiError drains the response body into an error for failed calls
func apiError(op string, res *esapi.Response) error {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s [%s]: unreadable response: %w", op, res.Status(), err)
	}
	return fmt.Errorf("%s [%s]: %s", op, res.Status(), string(raw))
}

// EnsureIndex creates the index with the given mapping unless it already exists
func (c *Client) EnsureIndex(ctx context.Context, index string, mapping interface{}) error {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}

	res, err = c.es.Indices.Create(index,
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		// A concurrent boot may have created it between the exists check
		// and the create call.
		raw, _ := io.ReadAll(res.Body)
		if strings.Contains(string(raw), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index [%s]: %s", res.Status(), string(raw))
	}
	return nil
}

// IndexDocument writes or replaces one document
func (c *Client) IndexDocument(ctx context.Context, index, docID string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: docID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return apiError("index", res)
	}
	return nil
}

// DeleteDocument removes one document. Deleting an absent document is not
// an error; the index converges on the database either way.
func (c *Client) DeleteDocument(ctx context.Context, index, docID string) error {
	res, err := esapi.DeleteRequest{
		Index:      index,
		DocumentID: docID,
	}.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return apiError("delete", res)
	}
	return nil
}

// Hit is a single search match. Source is left raw; callers hydrate full
// records from the database and only need the id and relevance data here.
type Hit struct {
	ID        string              `json:"_id"`
	Score     float64             `json:"_score"`
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// SearchResponse holds the total match count and the page of hits
type SearchResponse struct {
	Total   int64
	Results []Hit
}

// searchEnvelope mirrors the slice of the ES response body we consume
type searchEnvelope struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// Search executes a query and returns one page of hits
func (c *Client) Search(ctx context.Context, index string, query interface{}, from, size int) (*SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithFrom(from),
		c.es.Search.WithSize(size),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apiError("search", res)
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &SearchResponse{
		Total:   envelope.Hits.Total.Value,
		Results: envelope.Hits.Hits,
	}, nil
}
