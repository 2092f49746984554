package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driving"
	"github.com/custodia-labs/foldersense/internal/judgment"
	"github.com/custodia-labs/foldersense/internal/runtime"
)

// Ensure recommenderService implements RecommenderService
var _ driving.RecommenderService = (*recommenderService)(nil)

// recommenderService orchestrates one recommendation request through
// its stages: built -> judged -> parsed -> fused (optional) -> ranked.
// There are no internal retries; a judged or parsed failure terminates
// the request with a typed error, while fusion failures degrade
// silently per candidate.
type recommenderService struct {
	services *runtime.Services // Dynamic AI services
	store    *EmbeddingStore
	profiles driving.ProfileService
	fuser    *ScoreFuser
	logger   *slog.Logger
}

// RecommenderConfig holds configuration for the recommender.
type RecommenderConfig struct {
	Services *runtime.Services
	Store    *EmbeddingStore
	Profiles driving.ProfileService
	Logger   *slog.Logger
}

// NewRecommender creates a new RecommenderService.
// The judgment service is accessed dynamically via runtime.Services.
func NewRecommender(cfg RecommenderConfig) driving.RecommenderService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &recommenderService{
		services: cfg.Services,
		store:    cfg.Store,
		profiles: cfg.Profiles,
		fuser:    NewScoreFuser(logger),
		logger:   logger,
	}
}

// Recommend scores one document against the supplied folder profiles.
func (s *recommenderService) Recommend(ctx context.Context, doc *domain.DocumentProfile, folders []*domain.FolderProfile, opts driving.RecommendOptions) (*domain.RecommendationResult, error) {
	start := time.Now()

	if doc == nil {
		return nil, fmt.Errorf("%w: nil document profile", domain.ErrValidation)
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("%w: empty folder profile list", domain.ErrValidation)
	}
	if opts.MaxAlternatives <= 0 {
		opts.MaxAlternatives = driving.DefaultRecommendOptions().MaxAlternatives
	}

	judge := s.services.JudgmentService()
	if judge == nil {
		return nil, fmt.Errorf("%w: judgment service not configured", domain.ErrConfiguration)
	}

	// judged
	req := buildJudgmentRequest(doc, folders, opts.MaxAlternatives)
	reply, err := judge.Classify(ctx, req)
	if err != nil {
		return nil, err
	}

	// parsed
	parsed, err := judgment.Parse(reply.Text)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*domain.FolderProfile, len(folders))
	for _, f := range folders {
		byPath[f.Path] = f
	}

	primary := toRecommendation(parsed.Primary, byPath)
	alternatives := make([]*domain.Recommendation, 0, len(parsed.Alternatives))
	for _, alt := range parsed.Alternatives {
		if len(alternatives) >= opts.MaxAlternatives {
			break
		}
		alternatives = append(alternatives, toRecommendation(alt, byPath))
	}

	models := []string{judge.Model()}

	// fused (optional)
	if !opts.SkipFusion {
		if embedding, ok := s.documentEmbedding(ctx, doc); ok {
			s.fuseAll(ctx, primary, alternatives, byPath, embedding)
			if model := s.store.LiveModel(); model != "" {
				models = append(models, model)
			}
		}
	}

	// ranked: tiers come from the effective confidence; the parser's
	// designated primary stays primary regardless of how fusion moved
	// the alternatives' scores.
	primary.MatchStrength = domain.MatchStrengthFor(primary.EffectiveConfidence())
	for _, alt := range alternatives {
		alt.MatchStrength = domain.MatchStrengthFor(alt.EffectiveConfidence())
	}

	return &domain.RecommendationResult{
		DocumentPath:     doc.Path,
		Primary:          primary,
		Alternatives:     alternatives,
		SuggestNewFolder: parsed.SuggestNewFolder,
		SuggestedName:    parsed.SuggestedName,
		Metadata: domain.ResultMetadata{
			RequestID:   uuid.NewString(),
			Timestamp:   start,
			Duration:    time.Since(start),
			TotalTokens: reply.TotalTokens,
			Models:      models,
		},
	}, nil
}

// documentEmbedding resolves the document's vector: an embedding
// carried on the profile wins, then the store's fallback chain.
func (s *recommenderService) documentEmbedding(ctx context.Context, doc *domain.DocumentProfile) ([]float32, bool) {
	if len(doc.Embedding) > 0 {
		return doc.Embedding, true
	}
	return s.store.Lookup(ctx, doc.Path, embeddingText(doc))
}

// embeddingText is the text embedded for a document when the live
// provider serves the lookup.
func embeddingText(doc *domain.DocumentProfile) string {
	if doc.Preview != "" {
		return doc.Title + "\n" + doc.Preview
	}
	return doc.Title
}

// fuseAll enhances the primary and all alternatives concurrently. Each
// candidate's fusion reads only that candidate's folder profile and
// the shared read-only document embedding, so the fan-out is safe.
func (s *recommenderService) fuseAll(ctx context.Context, primary *domain.Recommendation, alternatives []*domain.Recommendation, byPath map[string]*domain.FolderProfile, embedding []float32) {
	candidates := append([]*domain.Recommendation{primary}, alternatives...)

	var wg sync.WaitGroup
	for _, rec := range candidates {
		wg.Add(1)
		go func(r *domain.Recommendation) {
			defer wg.Done()
			folder := s.ensureProfiled(ctx, byPath[r.FolderPath])
			s.fuser.Enhance(r, folder, embedding)
		}(rec)
	}
	wg.Wait()
}

// ensureProfiled lazily computes centroid and coherence for a folder
// whose profile arrived without them. Safe for concurrent callers: the
// profile cache tolerates duplicate computation.
func (s *recommenderService) ensureProfiled(ctx context.Context, folder *domain.FolderProfile) *domain.FolderProfile {
	if folder == nil || s.profiles == nil {
		return folder
	}
	if folder.HasValidCentroid || len(folder.MemberIDs) == 0 {
		return folder
	}

	centroid, ok := s.profiles.Centroid(ctx, folder.Path, folder.MemberIDs)
	if !ok {
		return folder
	}

	profiled := *folder
	profiled.Centroid = centroid
	profiled.HasValidCentroid = true
	profiled.Coherence = s.profiles.Coherence(ctx, folder.Path, folder.MemberIDs)
	return &profiled
}

// toRecommendation maps a parsed candidate onto the domain type,
// filling the display name from the folder profile when the judgment
// omitted it.
func toRecommendation(c judgment.Candidate, byPath map[string]*domain.FolderProfile) *domain.Recommendation {
	rec := &domain.Recommendation{
		FolderPath:    c.FolderPath,
		FolderName:    c.FolderName,
		Confidence:    domain.NormalizeConfidence(c.Confidence),
		NoConfidence:  c.NoConfidence,
		Reasoning:     c.Reasoning,
		MatchedTopics: c.MatchedTopics,
	}
	if rec.FolderName == "" {
		if folder, ok := byPath[c.FolderPath]; ok {
			rec.FolderName = folder.DisplayName()
		}
	}
	return rec
}
