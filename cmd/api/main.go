package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"journalapi/internal/browse"
	"journalapi/internal/catalog"
	"journalapi/internal/composer"
	"journalapi/internal/config"
	"journalapi/internal/logger"
	"journalapi/internal/platform/aladin"
	"journalapi/internal/platform/genai"
	"journalapi/internal/platform/kmdb"
	"journalapi/internal/platform/kofic"
	"journalapi/internal/platform/openlibrary"
	"journalapi/internal/record"
	"journalapi/internal/selection"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.Stringer("config", cfg))

	store, err := record.Open(context.Background(), cfg.Store)
	if err != nil {
		log.Fatal("cannot open record store",
			zap.String("backend", cfg.Store.Backend), zap.String("dsn", redactDSN(cfg.Store.DatabaseDSN)), zap.Error(err))
	}
	defer store.Close()
	log.Info("record store ready", zap.String("backend", store.Name))

	records := record.NewService(store.Repo, record.NewIDGenerator(), log)
	catalogSvc := buildCatalog(cfg.Catalog, log)
	summarizer, rewriter := buildGenerators(cfg.GenAI, log)
	drafts := composer.NewService(records, summarizer, rewriter, cfg.Composer.DraftIdle, log)
	defer drafts.Stop()

	flows := selection.NewManager(catalogSvc, cfg.Catalog.Debounce, cfg.Catalog.SelectionIdle, log)
	defer flows.Stop()

	h := handlers{
		catalog:   catalog.NewHTTPHandler(catalogSvc),
		selection: selection.NewHTTPHandler(flows, drafts),
		composer:  composer.NewHTTPHandler(drafts, log),
		records:   record.NewHTTPHandler(records, log),
		browse:    browse.NewHTTPHandler(browse.NewService(records), log),
		ready:     store.Ping,
	}

	handler, stopLimiter := buildHandler(cfg, h, log)
	defer stopLimiter()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.GenAI.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("stopped")
}

func buildCatalog(cfg config.CatalogConfig, log *zap.Logger) *catalog.Service {
	movies := kofic.NewClient(cfg.KOFICBaseURL, cfg.KOFICKey, cfg.RPS, cfg.Timeout)
	posters := kmdb.NewClient(cfg.KMDbBaseURL, cfg.KMDbKey, cfg.RPS, cfg.Timeout)
	books := aladin.NewClient(cfg.AladinBaseURL, cfg.AladinKey, cfg.RPS, cfg.Timeout)
	openLib := openlibrary.NewClient(cfg.OpenLibraryURL, cfg.UserAgent, cfg.RPS, cfg.Timeout)

	if !movies.Configured() {
		log.Warn("KOFIC_API_KEY not set, film search returns no results")
	}
	if !posters.Configured() {
		log.Warn("KMDB_API_KEY not set, film results have no posters")
	}
	if !books.Configured() {
		log.Info("ALADIN_TTB_KEY not set, book search uses Open Library")
	}

	return catalog.NewService(
		catalog.NewFilmSearcher(movies, posters, cfg.PosterLookups, log.Named("film")),
		catalog.NewBookSearcher(books, openLib, log.Named("book")),
	)
}

func buildGenerators(cfg config.GenAIConfig, log *zap.Logger) (summarizer, rewriter composer.Generator) {
	if cfg.Provider == "anthropic" {
		a := genai.NewAnthropic("", cfg.AnthropicKey, cfg.AnthropicModel, cfg.AnthropicTokens, cfg.Timeout)
		if !a.Configured() {
			log.Warn("ANTHROPIC_API_KEY not set, summaries and rewrites are disabled")
		}
		return a, a
	}

	summarizer = genai.NewGemini(cfg.GeminiBaseURL, cfg.GeminiKey, cfg.SummaryModel, cfg.Timeout)
	rewriter = genai.NewGemini(cfg.GeminiBaseURL, cfg.GeminiKey, cfg.RewriteModel, cfg.Timeout)
	if !summarizer.Configured() {
		log.Warn("GEMINI_API_KEY not set, summaries and rewrites are disabled")
	}
	return summarizer, rewriter
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
