// Command seed populates the database with demo data for local development.
package main

import (
	"flag"
	"log"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/config"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/database"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	recipes := flag.Int("recipes", 3, "recipes per user")
	ratings := flag.Int("ratings", 0, "ratings per recipe (0 = random)")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "store plaintext passwords (fast local seeding)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		Users:            *users,
		RecipesPerUser:   *recipes,
		RatingsPerRecipe: *ratings,
		SkipBcrypt:       *skipBcrypt,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
