package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/castmatch/castmatch-backend/matchservice"
)

func main() {
	if err := matchservice.Run(); err != nil {
		log.Error().Err(err).Msg("match-service exited with error")
		os.Exit(1)
	}
}
