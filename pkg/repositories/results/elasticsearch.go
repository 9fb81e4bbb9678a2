package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	Transport   http.RoundTripper // optional, mainly for tests
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "cardlab",
	}
}

const runMapping = `{
	"mappings": {
		"properties": {
			"run_id": { "type": "keyword" },
			"kind": { "type": "keyword" },
			"mean": { "type": "double" },
			"seed": { "type": "long" },
			"failed": { "type": "boolean" },
			"error": { "type": "text" },
			"duration_ms": { "type": "long" },
			"created_at": { "type": "date" },
			"params": { "type": "object", "enabled": false },
			"result": { "type": "object", "enabled": false }
		}
	}
}`

// esRun is the document shape indexed for each run
type esRun struct {
	RunID      string          `json:"run_id"`
	Kind       string          `json:"kind"`
	Mean       float64         `json:"mean"`
	Seed       int64           `json:"seed,omitempty"`
	Failed     bool            `json:"failed"`
	Error      string          `json:"error,omitempty"`
	DurationMS int64           `json:"duration_ms"`
	CreatedAt  time.Time       `json:"created_at"`
	Params     json.RawMessage `json:"params,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// ElasticsearchRepository stores runs in a base repository and indexes
// every saved run into Elasticsearch for dashboards.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	config   *ElasticsearchConfig
}

// NewElasticsearchRepository creates the client and makes sure the run index exists
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}
	if config.IndexPrefix == "" {
		config.IndexPrefix = "cardlab"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		config:   config,
	}

	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return repo, nil
}

// IndexName returns the index runs are written to
func (r *ElasticsearchRepository) IndexName() string {
	return r.config.IndexPrefix + "_runs"
}

func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.IndexName()}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if run index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.IndexName(),
		Body:  bytes.NewReader([]byte(runMapping)),
	}
	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating run index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating run index: %s", res.String())
	}
	return nil
}

// SaveRun stores the run in the base repository, then indexes it
func (r *ElasticsearchRepository) SaveRun(ctx context.Context, run *entities.ExperimentRun) error {
	if err := r.baseRepo.SaveRun(ctx, run); err != nil {
		return err
	}
	return r.IndexRun(ctx, run)
}

// IndexRun writes run into the run index
func (r *ElasticsearchRepository) IndexRun(ctx context.Context, run *entities.ExperimentRun) error {
	doc := esRun{
		RunID:      run.ID,
		Kind:       string(run.Kind),
		Mean:       run.Mean,
		Seed:       run.Seed,
		Failed:     run.Failed,
		Error:      run.Error,
		DurationMS: run.Duration.Milliseconds(),
		CreatedAt:  run.CreatedAt,
		Params:     run.Params,
		Result:     run.Result,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return types.WrapError(types.ErrInternalError, "encoding run document", err)
	}

	req := esapi.IndexRequest{
		Index:      r.IndexName(),
		DocumentID: run.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "indexing run "+run.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return types.Errorf(types.ErrDatabaseError, "indexing run %s: %s", run.ID, res.String())
	}
	return nil
}

// CountRuns counts indexed runs of kind; an empty kind counts all runs
func (r *ElasticsearchRepository) CountRuns(ctx context.Context, kind entities.ExperimentKind) (int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	}
	if kind != "" {
		query = map[string]interface{}{
			"query": map[string]interface{}{
				"term": map[string]interface{}{"kind": string(kind)},
			},
		}
	}

	body, err := json.Marshal(query)
	if err != nil {
		return 0, types.WrapError(types.ErrInternalError, "encoding count query", err)
	}

	res, err := r.client.Count(
		r.client.Count.WithContext(ctx),
		r.client.Count.WithIndex(r.IndexName()),
		r.client.Count.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return 0, types.WrapError(types.ErrDatabaseError, "counting runs", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, types.Errorf(types.ErrDatabaseError, "counting runs: %s", res.String())
	}

	var parsed struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, types.WrapError(types.ErrDatabaseError, "decoding count response", err)
	}
	return parsed.Count, nil
}

// GetRun delegates to the base repository
func (r *ElasticsearchRepository) GetRun(ctx context.Context, id string) (*entities.ExperimentRun, error) {
	return r.baseRepo.GetRun(ctx, id)
}

// ListRuns delegates to the base repository
func (r *ElasticsearchRepository) ListRuns(ctx context.Context, kind entities.ExperimentKind, limit int) ([]*entities.ExperimentRun, error) {
	return r.baseRepo.ListRuns(ctx, kind, limit)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
