package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"hospital-ai/config"
	"hospital-ai/hospital"
	"hospital-ai/logging"
	"hospital-ai/openai"
	"hospital-ai/server"
)

const serviceName = "hospital-ai"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	logging.Init(serviceName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ai := openai.NewClient(cfg.Backend, cfg.APIKey, cfg.BaseURL, nil)
	h := hospital.NewHandler(ai, hospital.Options{
		Model:       cfg.Model,
		Timeout:     cfg.LLMTimeout,
		ErrorDetail: cfg.ErrorDetail,
	})
	router := server.NewRouter(cfg, h)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("backend", cfg.Backend).
		Str("model", cfg.Model).
		Dur("llm_timeout", cfg.LLMTimeout).
		Msg("starting")
	if err := server.Run(ctx, cfg, router); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
