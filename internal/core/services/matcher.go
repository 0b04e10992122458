package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
)

// Ensure MatchService implements the interface.
var _ driving.MatchService = (*MatchService)(nil)

// MatchConfig configures a MatchService.
type MatchConfig struct {
	// Mode selects how the intent filters catalog rows.
	Mode domain.MatchMode

	// Taxonomy is consulted in taxonomy mode.
	Taxonomy domain.Taxonomy

	// ModelTimeout bounds each classifier and embedding call.
	ModelTimeout time.Duration
}

// MatchService recommends the catalog product most similar to a query
// within the query's detected intent. It holds no mutable state and is
// safe for concurrent use.
type MatchService struct {
	catalogs driving.CatalogService
	resolver *IntentResolver
	embedder *BatchEmbedder
	mode     domain.MatchMode
	taxonomy domain.Taxonomy
	timeout  time.Duration
}

// NewMatchService creates a match service.
// An invalid mode falls back to substring; a zero timeout to domain.DefaultModelTimeout.
func NewMatchService(
	catalogs driving.CatalogService,
	resolver *IntentResolver,
	embedder driven.EmbeddingService,
	cfg MatchConfig,
) *MatchService {
	if !cfg.Mode.IsValid() {
		cfg.Mode = domain.MatchModeSubstring
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = domain.DefaultModelTimeout
	}
	if cfg.Taxonomy == nil {
		cfg.Taxonomy = domain.Taxonomy{}
	}
	return &MatchService{
		catalogs: catalogs,
		resolver: resolver,
		embedder: NewBatchEmbedder(embedder, BatchEmbedderConfig{BatchSize: 1, Workers: 1}),
		mode:     cfg.Mode,
		taxonomy: cfg.Taxonomy,
		timeout:  cfg.ModelTimeout,
	}
}

// Mode returns the configured match mode.
func (s *MatchService) Mode() domain.MatchMode {
	return s.mode
}

// Match matches query against the current catalog.
func (s *MatchService) Match(ctx context.Context, query string) (*domain.MatchResult, error) {
	if s.catalogs == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	catalog, err := s.catalogs.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.MatchCatalog(ctx, query, catalog)
}

// MatchCatalog matches query against catalog.
//
// The query's intent is resolved against the catalog's categories, rows are
// filtered by the match mode, and the remaining row with the highest cosine
// similarity to the query wins. Ties go to the earliest row. When no row falls
// under the intent the result carries the intent and no product.
func (s *MatchService) MatchCatalog(ctx context.Context, query string, catalog *domain.Catalog) (*domain.MatchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, domain.ErrCatalogNotLoaded
	}

	if s.resolver == nil {
		return nil, fmt.Errorf("%w: no classifier configured", domain.ErrIntentUnresolved)
	}

	labels := IntentLabels(catalog, s.taxonomy)

	classifyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	verdict, err := s.resolver.Resolve(classifyCtx, query, labels)
	cancel()
	if err != nil {
		return nil, err
	}

	result := &domain.MatchResult{
		Query:      query,
		Intent:     verdict.Label,
		Confidence: verdict.Confidence,
		Mode:       s.mode,
	}

	candidates := s.filter(catalog, verdict.Label)
	result.Candidates = len(candidates)
	if len(candidates) == 0 {
		return result, nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.timeout)
	queryVec, err := s.embedder.EmbedOne(embedCtx, query)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if catalog.Dimensions > 0 && len(queryVec) != catalog.Dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, catalog %s has %d",
			domain.ErrModelMismatch, len(queryVec), catalog.ID, catalog.Dimensions)
	}

	best := -1
	bestScore := math.Inf(-1)
	for _, idx := range candidates {
		score := domain.CosineSimilarity(queryVec, catalog.Products[idx].Embedding)
		if math.IsNaN(score) {
			continue
		}
		if score > bestScore {
			best = idx
			bestScore = score
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%w: no comparable embedding among %d candidates in catalog %s",
			domain.ErrData, len(candidates), catalog.ID)
	}

	product := catalog.Products[best]
	result.Product = &product
	result.Score = bestScore
	return result, nil
}

// filter returns the indexes of products selected by intent, in catalog order.
func (s *MatchService) filter(catalog *domain.Catalog, intent string) []int {
	var selected []int
	for i := range catalog.Products {
		if s.mode.Matches(catalog.Products[i].Category, intent, s.taxonomy) {
			selected = append(selected, i)
		}
	}
	return selected
}
