// deckpilot-server exposes the record store bridge, the record lookup, and
// the slide assembler as callable tools on stdio, and optionally serves the
// local staging endpoint.
package main

import (
	"context"
	"flag"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	deckx "deckpilot/pipeline/deck"
	sourcex "deckpilot/pipeline/source"
	storex "deckpilot/pipeline/store"
	toolsx "deckpilot/pipeline/tools"
	configx "deckpilot/pkg/config"
	_ "deckpilot/pkg/logger/autoload"
)

const version = "0.1.0"

type appConfig struct {
	CachePath   string `envconfig:"CACHE_PATH" split_words:"true" default:"company_records.csv"`
	StagingAddr string `envconfig:"STAGING_ADDR" split_words:"true"`
}

func main() {
	authorize := flag.Bool("authorize", false, "run the one-time Google authorization flow and exit")
	flag.Parse()

	appCfg := configx.MustNew[appConfig]("DECKPILOT")
	googleCfg := configx.MustNew[deckx.Config]("GOOGLE")
	ctx := context.Background()

	if *authorize {
		if err := deckx.Authorize(ctx, *googleCfg); err != nil {
			log.Fatal().Err(err).Msg("google authorization failed")
		}
		log.Info().Str("token_file", googleCfg.TokenFile).Msg("google authorization complete")
		return
	}

	sourceCfg := configx.MustNew[sourcex.Config]("NOTION")
	database := sourcex.MustNewDatabase(*sourceCfg)

	store, err := storex.NewFileStore(database, appCfg.CachePath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create record store")
	}

	api, err := deckx.NewGoogleAPI(ctx, *googleCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create slides client")
	}
	assembler := deckx.NewAssembler(api)

	if appCfg.StagingAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		router := storex.NewStagingRouter(store)
		go func() {
			if err := router.Run(appCfg.StagingAddr); err != nil {
				log.Error().Err(err).Msg("staging endpoint stopped")
			}
		}()
		log.Info().Str("addr", appCfg.StagingAddr).Msg("staging endpoint listening")
	}

	s := server.NewMCPServer("deckpilot", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	toolsx.Register(s, toolsx.NewHandlers(store, assembler))

	log.Info().Str("cache", appCfg.CachePath).Msg("tool server listening on stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Fatal().Err(err).Msg("tool server stopped")
	}
}
