// Command seed loads the room, service and staff catalogue from a TOML
// file into the database.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/logger"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/seed"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

func main() {
	path := flag.String("file", "configs/seed.toml", "seed catalogue")
	flag.Parse()

	cfg := config.Load()
	log, closer := logger.New(cfg.Log)
	defer closer.Close()

	cat, err := seed.Load(*path)
	if err != nil {
		log.WithError(err).Fatal("load seed")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	catalogue := service.NewCatalogueService(repository.NewStore(db), func(context.Context) {})
	rep, err := seed.Apply(ctx, cat, catalogue, repository.NewUserRepo(db), cfg.BcryptCost, log)
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.WithField("rooms", rep.Rooms).
		WithField("services", rep.Services).
		WithField("users", rep.Users).
		WithField("skipped", rep.Skipped).
		Info("seed applied")
}
