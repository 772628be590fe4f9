package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
	"github.com/kiboventures/outreach/outreach/delivery"
	"github.com/kiboventures/outreach/outreach/directory"
	"github.com/kiboventures/outreach/outreach/draft"
	orchestratorx "github.com/kiboventures/outreach/outreach/orchestrator"
	"github.com/kiboventures/outreach/outreach/research"
	"github.com/kiboventures/outreach/outreach/strategy"
	"github.com/kiboventures/outreach/outreach/worker"
	calax "github.com/kiboventures/outreach/pkg/cala"
	configx "github.com/kiboventures/outreach/pkg/config"
	exax "github.com/kiboventures/outreach/pkg/exa"
	gmailx "github.com/kiboventures/outreach/pkg/gmail"
	llmx "github.com/kiboventures/outreach/pkg/llm"
	_ "github.com/kiboventures/outreach/pkg/logger/autoload"
	serverx "github.com/kiboventures/outreach/server"
)

type AppConfig struct {
	ResearchBackend  string `envconfig:"RESEARCH_BACKEND" default:"exa"`
	DirectoryBackend string `envconfig:"DIRECTORY_BACKEND" default:"csv"`
	Workers          int64  `envconfig:"WORKERS" default:"8"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")

	dir, err := directory.New(ctx, newDirectorySource(appCfg.DirectoryBackend))
	if err != nil {
		log.Fatal().Err(err).Msg("load directory")
	}

	searcher := newSearcher(appCfg.ResearchBackend)

	aggregator, err := research.NewAggregator(searcher)
	if err != nil {
		log.Fatal().Err(err).Msg("build aggregator")
	}

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	generator := llmx.MustNew(*llmCfg)

	validator, err := research.NewValidator(generator)
	if err != nil {
		log.Fatal().Err(err).Msg("build validator")
	}

	drafter, err := draft.NewDrafter(generator)
	if err != nil {
		log.Fatal().Err(err).Msg("build drafter")
	}

	strategist, err := strategy.New(searcher, generator)
	if err != nil {
		log.Fatal().Err(err).Msg("build strategist")
	}

	gmailCfg := configx.MustNew[gmailx.Config]("GMAIL")
	mailer, err := gmailx.NewClient(ctx, *gmailCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build gmail client")
	}

	gateway, err := delivery.NewGateway(mailer)
	if err != nil {
		log.Fatal().Err(err).Msg("build delivery gateway")
	}

	orch, err := orchestratorx.New(dir, aggregator, validator, drafter, strategist, gateway, worker.NewPool(appCfg.Workers))
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	srv, err := serverx.New(orch)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	httpServer := &http.Server{
		Addr:        serverCfg.Addr,
		Handler:     srv.Handler(),
		ReadTimeout: serverCfg.ReadTimeout,
	}

	go func() {
		log.Info().Str("addr", serverCfg.Addr).Msg("outreach api listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func newDirectorySource(backend string) directory.Source {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "postgres":
		pgCfg := configx.MustNew[directory.PostgresConfig]("DIRECTORY_PG")
		src, err := directory.NewPostgresSource(*pgCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build postgres directory source")
		}
		return src
	default:
		return directory.NewCSVSource(*configx.MustNew[directory.CSVConfig]("DIRECTORY"))
	}
}

func newSearcher(backend string) contractx.Searcher {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "cala":
		calaCfg := configx.MustNew[calax.Config]("CALA")
		src, err := research.NewCalaSource(calax.MustNew(*calaCfg))
		if err != nil {
			log.Fatal().Err(err).Msg("build cala source")
		}
		return src
	default:
		exaCfg := configx.MustNew[exax.Config]("EXA")
		src, err := research.NewExaSource(exax.MustNew(*exaCfg))
		if err != nil {
			log.Fatal().Err(err).Msg("build exa source")
		}
		return src
	}
}
