package main

import (
	"log"

	"career-mentor-be/internal/config"
	"career-mentor-be/internal/model"
	"career-mentor-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for mentor tables...")

	if err := database.Migrate(db,
		&model.Memory{},
		&model.UserProfile{},
		&model.Application{},
	); err != nil {
		log.Fatal("Error: ", err)
	}

	log.Println("Migration complete")
}
