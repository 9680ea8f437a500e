// Command main runs the database seeder for Accessly.
package main

import (
	"flag"
	"log"

	"accessly/internal/config"
	"accessly/internal/database"
	"accessly/internal/seed"
)

func main() {
	numWheelers := flag.Int("wheelers", 20, "Number of Wheeler accounts to create")
	numBusinesses := flag.Int("businesses", 40, "Number of businesses to create")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d wheelers, %d businesses\n", *numWheelers, *numBusinesses)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seed.Catalog(db); err != nil {
		log.Fatalf("Catalog seeding failed: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumWheelers:   *numWheelers,
		NumBusinesses: *numBusinesses,
	}); err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}
}
