package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-api/internal/service"
	"gitlab.com/dirk.krummacker/contacts-api/internal/store"
)

// Usage example on the command line:
// > CONTACTS_SERVER_PORT=8080 CONTACTS_STORE_MONGO_URI=mongodb://localhost:27017 go run main.go
// > CONTACTS_STORE_DRIVER=mysql CONTACTS_STORE_MYSQL_USER=dirk CONTACTS_STORE_MYSQL_PASSWORD=bullo92 go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(config.Default().Log)
		fallback.Fatal().Err(err).Msg("could not load configuration")
	}
	log := logger.New(cfg.Log)
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	contacts, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("could not connect to store")
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("connected to store")

	router := service.NewService(contacts, log).SetupHttpRouter(cfg.Server.RequestLogging)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	if err := contacts.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("could not close store")
	}
}
