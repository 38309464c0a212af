package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	dispatchx "github.com/digitaldept/business-advisor/advisor/dispatch"
	llmx "github.com/digitaldept/business-advisor/advisor/llm"
	sessionx "github.com/digitaldept/business-advisor/advisor/session"
	toolx "github.com/digitaldept/business-advisor/advisor/tool"
	configx "github.com/digitaldept/business-advisor/pkg/config"
	logx "github.com/digitaldept/business-advisor/pkg/logger"
	tokenx "github.com/digitaldept/business-advisor/pkg/token"
	serverx "github.com/digitaldept/business-advisor/server"
)

type AppConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	SessionCapacity int           `envconfig:"SESSION_CAPACITY" split_words:"true" default:"8"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("GIGACHAT")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid gigachat config")
	}
	tokenCfg := configx.MustNew[tokenx.Config]("GIGACHAT_OAUTH")
	provider := tokenx.MustNewProvider(*tokenCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := provider.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial access token refresh failed; requests must carry their own bearer token")
	} else {
		probeCredential(ctx, *llmCfg, provider.Token())
	}
	go provider.Run(ctx)

	factory := sessionx.NewAgentFactory(*llmCfg, toolx.All())
	cache := sessionx.NewCache(factory, provider, sessionx.WithCapacity(appCfg.SessionCapacity))
	dispatcher := dispatchx.New(cache)

	srv := &http.Server{
		Addr:    ":" + appCfg.Port,
		Handler: serverx.New(dispatcher).Router(),
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("advisor service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// probeCredential lists models with the freshly issued access token so a bad
// authorization key is visible at startup instead of on the first request.
func probeCredential(ctx context.Context, cfg llmx.Config, credential string) {
	client := llmx.NewSDKClient(cfg, credential)
	if client == nil {
		return
	}
	if _, err := client.Models.List(ctx); err != nil {
		log.Warn().Err(err).Msg("gigachat credential probe failed")
		return
	}
	log.Info().Msg("gigachat credential verified")
}
