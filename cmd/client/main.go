// deckpilot-client connects to one or more tool servers, binds their
// declared tools to a chat model, and relays the conversational loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"deckpilot/chat"
	promptx "deckpilot/chat/prompt"
	configx "deckpilot/pkg/config"
	_ "deckpilot/pkg/logger/autoload"
)

func main() {
	pitch := flag.String("pitch", "", "build a deck for the named company non-interactively and exit")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg := configx.MustNew[chat.Config]("OPENROUTER")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model configuration")
	}

	ctx := context.Background()

	callers := make([]chat.Caller, 0, flag.NArg())
	for _, command := range flag.Args() {
		conn, err := chat.Connect(ctx, command)
		if err != nil {
			log.Fatal().Err(err).Str("server", command).Msg("could not connect to tool server")
		}
		defer conn.Close()
		callers = append(callers, conn)
		log.Info().Str("server", conn.Name()).Int("tools", len(conn.Tools())).Msg("connected to tool server")
	}

	if err := chat.Preflight(ctx, cfg.OpenRouterFor(chat.RoleChat)); err != nil {
		log.Warn().Err(err).Msg("model endpoint preflight failed; continuing anyway")
	}

	prompts := promptx.LoadPromptSet()

	if *pitch != "" {
		pitchCfg := cfg.OpenRouterFor(chat.RolePitch)
		writer, err := chat.NewPitchWriter(ctx, &pitchCfg, prompts.Pitch)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create pitch writer")
		}
		if err := chat.RunPitch(ctx, callers, writer, *pitch, os.Stdout); err != nil {
			log.Fatal().Err(err).Str("company", *pitch).Msg("pitch run failed")
		}
		return
	}

	chatCfg := cfg.OpenRouterFor(chat.RoleChat)
	loop, err := chat.NewLoop(ctx, &chatCfg, callers, prompts.System, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("could not start conversation loop")
	}
	if err := loop.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("conversation loop failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: deckpilot-client [-pitch COMPANY] SERVER_CMD [SERVER_CMD ...]")
	flag.PrintDefaults()
}
