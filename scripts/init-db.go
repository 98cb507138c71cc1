package main

import (
	"flag"
	"workshop_manager/internal/config"
	"workshop_manager/internal/database"
	"workshop_manager/internal/migrations"
	"workshop_manager/internal/repository"

	log "github.com/sirupsen/logrus"
)

func main() {
	seed := flag.Bool("seed", true, "create role groups and demo accounts")
	fixPermissions := flag.Bool("fix-permissions", false, "repair staff flags of the demo accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	store := repository.NewStore(db)
	if *seed {
		if err := migrations.SeedInitialData(store); err != nil {
			log.Fatal("Failed to seed initial data: ", err)
		}
		for _, account := range migrations.SeedAccounts {
			log.WithField("username", account.Username).Info("Demo account available")
		}
	}
	if *fixPermissions {
		if err := migrations.FixUserPermissions(store); err != nil {
			log.Fatal("Failed to fix user permissions: ", err)
		}
	}

	log.Info("Database initialization completed")
}
