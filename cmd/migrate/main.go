// migrate applies the embedded SQL migrations: go run ./cmd/migrate -direction up
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-forum-auth/internal/config"
	"github.com/jrsteele09/go-forum-auth/internal/db/migrate"
	"github.com/jrsteele09/go-forum-auth/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	direction := flag.String("direction", migrate.DirectionUp, "Migration direction: up or down")
	flag.Parse()

	_ = godotenv.Load()
	c, err := config.NewMigrate()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())

	if err := migrate.Run(c.GetDatabaseURL(), *direction); err != nil {
		log.Fatal().Err(err).Str("direction", *direction).Msg("migration failed")
	}
	log.Info().Str("direction", *direction).Msg("migrations applied")
}
