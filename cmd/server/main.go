package main

import (
	"log"

	"github.com/urbansense/siteimpact/internal/api"
	"github.com/urbansense/siteimpact/internal/config"
	"github.com/urbansense/siteimpact/internal/database"
	"github.com/urbansense/siteimpact/internal/handler"
	"github.com/urbansense/siteimpact/internal/osm"
	"github.com/urbansense/siteimpact/internal/repository"
	"github.com/urbansense/siteimpact/internal/service"
	"github.com/urbansense/siteimpact/internal/uoapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	source := uoapi.NewClient(nil, cfg.UOBaseURL, cfg.BoundaryURL)
	streets := osm.NewClient(cfg.OverpassURL, 0)

	svc := service.NewAnalysisService(cfg, source, streets,
		repository.NewReadingsRepository(db),
		repository.NewRunsRepository(db))

	router := api.SetupRouter(
		handler.NewAnalysisHandler(svc),
		handler.NewRunsHandler(repository.NewRunsRepository(db)),
	)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
