package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-forum-auth/auth"
	"github.com/jrsteele09/go-forum-auth/internal/config"
	"github.com/jrsteele09/go-forum-auth/internal/db"
	"github.com/jrsteele09/go-forum-auth/internal/logging"
	"github.com/jrsteele09/go-forum-auth/server"
	pgsessionrepo "github.com/jrsteele09/go-forum-auth/sessions/repopg"
	"github.com/jrsteele09/go-forum-auth/token"
	pguserrepo "github.com/jrsteele09/go-forum-auth/users/repopg"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is fine; the environment may already be populated
	_ = godotenv.Load()

	c, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, config.Usage())
		os.Exit(1)
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	ctx := context.Background()
	pool, err := db.Open(ctx, c.GetDatabaseURL())
	if err != nil {
		return err
	}
	defer pool.Close()

	codec, err := token.NewCodecFromConfig(c)
	if err != nil {
		return err
	}

	repos := auth.Repos{
		Users:    pguserrepo.NewUserRepo(pool),
		Sessions: pgsessionrepo.NewSessionRepo(pool),
	}
	authService, err := auth.NewService(repos, codec, c)
	if err != nil {
		return err
	}

	handler, err := server.New(c, authService, codec, repos, pool)
	if err != nil {
		return err
	}

	displayAppname(c.GetAppName())
	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
