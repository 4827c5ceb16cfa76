package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iammanoj/interestlens/activity"
	"github.com/iammanoj/interestlens/api"
	"github.com/iammanoj/interestlens/authenticity"
	"github.com/iammanoj/interestlens/cache"
	"github.com/iammanoj/interestlens/events"
	"github.com/iammanoj/interestlens/pipeline"
	"github.com/iammanoj/interestlens/pipeline/providers"
	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/trace"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Embedding cache: Redis when reachable, in-memory otherwise
	var embeddingCache cache.Store
	if redisCache, err := cache.NewRedisStoreFromEnv(); err != nil {
		log.Printf("Warning: Redis cache unavailable (%v); using in-memory cache", err)
		embeddingCache = cache.NewMemoryStore()
	} else {
		embeddingCache = redisCache
	}
	defer embeddingCache.Close()

	// Profiles: persisted to Redis when reachable, memory-only otherwise
	var persistence profile.Persistence
	if redisPersist, err := profile.NewRedisPersistenceFromEnv(); err != nil {
		log.Printf("Warning: Redis persistence unavailable (%v); profiles are memory-only", err)
	} else {
		persistence = redisPersist
		defer redisPersist.Close()
	}
	profiles := profile.NewStore(persistence)

	// Providers are optional; each missing one degrades its pipeline stage
	cohere := providers.NewCohereProviderFromEnv()
	if cohere == nil {
		log.Println("Warning: COHERE_API_KEY not set; classification and embeddings disabled")
	}
	explainer := providers.NewAnthropicExplainerFromEnv()
	if explainer == nil {
		log.Println("Warning: ANTHROPIC_API_KEY not set; using templated explanations")
	}

	archiver, err := trace.NewS3ArchiverFromEnv(ctx)
	if err != nil {
		log.Printf("Warning: trace archiver unavailable: %v", err)
	}

	analyzerCfg := pipeline.AnalyzerConfig{
		Profiles: profiles,
		Cache:    embeddingCache,
	}
	if cohere != nil {
		analyzerCfg.Classifier = cohere
		analyzerCfg.Embedder = cohere
	}
	if explainer != nil {
		analyzerCfg.Explainer = explainer
	}
	if archiver != nil {
		analyzerCfg.Traces = archiver
	}
	analyzer := pipeline.NewAnalyzer(analyzerCfg)

	// Activity tracking shares the cache's Redis connection model
	var tracker *activity.Tracker
	if client, err := activityRedis(); err != nil {
		log.Printf("Warning: activity store unavailable (%v); using in-memory store", err)
		tracker = activity.NewTracker(activity.NewMemoryStore(), profiles)
	} else {
		tracker = activity.NewTracker(client, profiles)
	}

	// Authenticity checking needs the LLM analyst; without it the routes 503
	var checker *authenticity.Checker
	if analyst := authenticity.NewAnthropicAnalystFromEnv(); analyst == nil {
		log.Println("Warning: ANTHROPIC_API_KEY not set; authenticity checking disabled")
	} else {
		extractor := authenticity.NewReadabilityExtractor()
		checker = authenticity.NewChecker(analyst, extractor,
			authenticity.NewNewsSearcher(extractor), authenticityStore())
	}

	// Kafka event ingestion is optional
	consumer, err := events.NewConsumerFromEnv(events.NewApplier(profiles))
	if err != nil {
		log.Printf("Warning: Kafka consumer unavailable: %v", err)
	} else if consumer != nil {
		if err := consumer.Start(ctx); err != nil {
			log.Printf("Warning: failed to start Kafka consumer: %v", err)
		} else {
			defer consumer.Close()
		}
	}

	router := api.NewRouter(api.Deps{
		Analyzer: analyzer,
		Profiles: profiles,
		Tracker:  tracker,
		Checker:  checker,
	})

	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Printf("Starting API server on %s", addr)
		log.Println("API endpoints available:")
		log.Println("  POST   /analyze_page")
		log.Println("  POST   /event")
		log.Println("  POST   /voice/preferences")
		log.Println("  POST   /activity/track")
		log.Println("  GET    /activity/history")
		log.Println("  POST   /check_authenticity")
		log.Println("  POST   /check_authenticity/batch")
		log.Println("  POST   /preview_url")
		log.Println("  GET    /profile/:id")
		log.Println("  DELETE /profile/:id")
		log.Println("  GET    /health")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown error: %v", err)
	}
}

// activityRedis builds the Redis-backed activity store from the same env vars
// as the embedding cache.
func activityRedis() (*activity.RedisStore, error) {
	store, err := cache.NewRedisStoreFromEnv()
	if err != nil {
		return nil, err
	}
	return activity.NewRedisStore(store.Client()), nil
}

// authenticityStore caches verification results in Redis when reachable,
// in memory otherwise.
func authenticityStore() authenticity.Store {
	store, err := cache.NewRedisStoreFromEnv()
	if err != nil {
		log.Printf("Warning: authenticity cache unavailable (%v); using in-memory store", err)
		return authenticity.NewMemoryStore()
	}
	return authenticity.NewRedisStore(store.Client())
}
