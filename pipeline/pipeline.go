// Package pipeline orchestrates page analysis: fingerprint the raw items,
// enrich them with topics and embeddings (cached where possible), score them
// against the caller's profile, and attach explanations. External services are
// consumed through narrow interfaces so every stage degrades independently.
package pipeline

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iammanoj/interestlens/cache"
	"github.com/iammanoj/interestlens/config"
	"github.com/iammanoj/interestlens/fingerprint"
	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/scoring"
	"github.com/iammanoj/interestlens/types"
)

// Classifier labels text with topics from the fixed taxonomy.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]string, error)
}

// Embedder produces a text embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Explainer generates one-line explanations for the top-ranked items, keyed by
// item id. Missing ids fall back to templated explanations.
type Explainer interface {
	Explain(ctx context.Context, page types.DOMOutline, items []ExplainInput) (map[string]string, error)
}

// TraceSink archives a completed analysis trace and returns an opaque
// reference for the response.
type TraceSink interface {
	Archive(ctx context.Context, trace *Trace) (string, error)
}

// Trace is the diagnostic record of one analysis run.
type Trace struct {
	PageURL       string           `json:"page_url"`
	UserID        string           `json:"user_id,omitempty"`
	ItemCount     int              `json:"item_count"`
	CacheHits     int              `json:"cache_hits"`
	DegradedItems []string         `json:"degraded_items,omitempty"`
	StageMillis   map[string]int64 `json:"stage_millis"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

// AnalyzerConfig wires the analyzer's collaborators. Only Profiles is
// required; every nil collaborator shrinks the pipeline to what remains.
type AnalyzerConfig struct {
	Profiles   *profile.Store
	Cache      cache.Store
	Classifier Classifier
	Embedder   Embedder
	Explainer  Explainer
	Traces     TraceSink
}

// Analyzer runs the analysis pipeline. Safe for concurrent use.
type Analyzer struct {
	profiles   *profile.Store
	cache      cache.Store
	classifier Classifier
	embedder   Embedder
	explainer  Explainer
	traces     TraceSink
}

// NewAnalyzer creates an Analyzer from its collaborators.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{
		profiles:   cfg.Profiles,
		cache:      cfg.Cache,
		classifier: cfg.Classifier,
		embedder:   cfg.Embedder,
		explainer:  cfg.Explainer,
		traces:     cfg.Traces,
	}
}

// Analyze runs the full pipeline for one page. Every input item appears in the
// result exactly once, ordered by descending score; ties keep their relative
// extraction order.
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalyzePageRequest) (*types.AnalyzePageResponse, error) {
	if len(req.Items) == 0 {
		return nil, &PipelineError{Stage: StageExtract, Err: errors.New("no items to analyze")}
	}

	trace := &Trace{
		PageURL:     req.PageURL,
		UserID:      req.UserID,
		ItemCount:   len(req.Items),
		StageMillis: make(map[string]int64),
	}

	prof, err := a.profiles.Get(ctx, req.UserID)
	if err != nil {
		// A broken profile backend must not take analysis down; score cold
		log.Printf("Warning: failed to load profile for %q: %v", req.UserID, err)
		prof = types.NewUserProfile(req.UserID)
	}

	fps := fingerprint.BuildAll(req.Items)

	extractStart := time.Now()
	if err := a.extract(ctx, fps, trace); err != nil {
		return nil, &PipelineError{Stage: StageExtract, Err: err}
	}
	trace.StageMillis[StageExtract] = time.Since(extractStart).Milliseconds()

	scoreStart := time.Now()
	ranked := make([]rankedItem, len(fps))
	for i, fp := range fps {
		score, topics := scoring.Score(fp, prof)
		ranked[i] = rankedItem{fp: fp, score: score, topics: topics}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	trace.StageMillis[StageScore] = time.Since(scoreStart).Milliseconds()

	explainStart := time.Now()
	items := a.explain(ctx, req, ranked, prof)
	trace.StageMillis[StageExplain] = time.Since(explainStart).Milliseconds()

	resp := &types.AnalyzePageResponse{
		Items:      items,
		PageTopics: pageTopics(fps),
	}
	if req.UserID != "" {
		resp.ProfileSummary = summarize(prof)
	}

	if a.traces != nil {
		trace.GeneratedAt = time.Now().UTC()
		ref, err := a.traces.Archive(ctx, trace)
		if err != nil {
			log.Printf("Warning: failed to archive analysis trace: %v", err)
		} else {
			resp.TraceRef = ref
		}
	}
	return resp, nil
}

type rankedItem struct {
	fp     types.ContentFingerprint
	score  int
	topics []string
}

// extract fills in topics and embeddings for every fingerprint, consulting the
// cache first and falling back to the providers on a miss. Provider failures
// degrade the item to the fallback topic; only context cancellation aborts.
func (a *Analyzer) extract(ctx context.Context, fps []types.ContentFingerprint, trace *Trace) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.MaxExtractConcurrency)

	hits := make([]bool, len(fps))
	degraded := make([]bool, len(fps))

	for i := range fps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp := &fps[i]

			if a.cache != nil {
				entry, ok, err := a.cache.Get(gctx, fp.Text)
				if err != nil {
					log.Printf("Warning: embedding cache read failed: %v", err)
				} else if ok {
					fp.Topics = entry.Topics
					fp.TextEmbedding = entry.Embedding
					hits[i] = true
					return nil
				}
			}

			complete := true

			if a.classifier != nil {
				topics, err := a.classifier.Classify(gctx, fp.Text)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					log.Printf("Warning: classification failed for item %s: %v", fp.ID, err)
					complete = false
				} else {
					fp.Topics = topics
				}
			} else {
				complete = false
			}

			if a.embedder != nil {
				embedding, err := a.embedder.Embed(gctx, fp.Text)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					log.Printf("Warning: embedding failed for item %s: %v", fp.ID, err)
					complete = false
				} else {
					fp.TextEmbedding = embedding
				}
			} else {
				complete = false
			}

			if len(fp.Topics) == 0 {
				fp.Topics = []string{config.FallbackTopic}
				degraded[i] = true
			}

			// Only complete results are cached; a degraded entry would pin the
			// failure for the TTL
			if complete && a.cache != nil {
				if err := a.cache.Put(gctx, fp.Text, cache.Entry{
					Embedding: fp.TextEmbedding,
					Topics:    fp.Topics,
				}, config.EmbeddingCacheTTL); err != nil {
					log.Printf("Warning: embedding cache write failed: %v", err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i := range fps {
		if hits[i] {
			trace.CacheHits++
		}
		if degraded[i] {
			trace.DegradedItems = append(trace.DegradedItems, fps[i].ID)
		}
	}
	return nil
}

// explain attaches a "why" line to every ranked item. The top items go to the
// LLM explainer when one is configured; everything else, and any LLM failure,
// uses the templated fallback.
func (a *Analyzer) explain(ctx context.Context, req types.AnalyzePageRequest, ranked []rankedItem, prof *types.UserProfile) []types.ScoredItem {
	authenticated := req.UserID != ""

	generated := map[string]string{}
	if a.explainer != nil && len(ranked) > 0 {
		n := config.ExplainTopN
		if n > len(ranked) {
			n = len(ranked)
		}
		inputs := make([]ExplainInput, n)
		for i := 0; i < n; i++ {
			inputs[i] = ExplainInput{
				ID:            ranked[i].fp.ID,
				Text:          ranked[i].fp.Text,
				Topics:        ranked[i].topics,
				Score:         ranked[i].score,
				ProfileTopics: positiveTopics(prof, 3),
			}
		}
		whys, err := a.explainer.Explain(ctx, req.DOMOutline, inputs)
		if err != nil {
			log.Printf("Warning: explanation generation failed: %v", err)
		} else {
			generated = whys
		}
	}

	items := make([]types.ScoredItem, len(ranked))
	for i, r := range ranked {
		why := generated[r.fp.ID]
		if why == "" {
			why = templatedWhy(r.fp, prof, authenticated)
		}
		items[i] = types.ScoredItem{
			ID:     r.fp.ID,
			Score:  r.score,
			Topics: r.topics,
			Why:    why,
		}
	}
	return items
}

// pageTopics aggregates item topics by frequency, most common first. The
// fallback topic is excluded unless nothing else was detected.
func pageTopics(fps []types.ContentFingerprint) []string {
	counts := make(map[string]int)
	for _, fp := range fps {
		for _, t := range fp.Topics {
			counts[t]++
		}
	}
	delete(counts, config.FallbackTopic)
	if len(counts) == 0 {
		if len(fps) > 0 {
			return []string{config.FallbackTopic}
		}
		return nil
	}

	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > config.PageTopicLimit {
		topics = topics[:config.PageTopicLimit]
	}
	return topics
}

func summarize(prof *types.UserProfile) *types.ProfileSummary {
	top := prof.TopTopics(config.PageTopicLimit)
	// Only positive interests belong in the summary
	filtered := top[:0]
	for _, e := range top {
		if e.Affinity > 0 {
			filtered = append(filtered, e)
		}
	}
	return &types.ProfileSummary{TopTopics: filtered}
}

// positiveTopics returns up to limit topic names the user has positive
// affinity for.
func positiveTopics(prof *types.UserProfile, limit int) []string {
	var topics []string
	for _, e := range prof.TopTopics(0) {
		if e.Affinity <= 0 {
			break
		}
		topics = append(topics, e.Topic)
		if len(topics) == limit {
			break
		}
	}
	return topics
}
