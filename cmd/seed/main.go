// Command seed loads the fixtures and optionally generated posts.
package main

import (
	"context"
	"flag"
	"log"

	"inkpost/internal/config"
	"inkpost/internal/database"
	"inkpost/internal/seed"
)

func main() {
	numPosts := flag.Int("posts", 0, "Number of generated posts to add")
	fakerSeed := flag.Int64("seed", 0, "Faker seed (0 picks a random one)")
	skipFixtures := flag.Bool("skip-fixtures", false, "Do not load the YAML fixtures")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if !*skipFixtures {
		if err := seed.LoadFixtures(ctx, db); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	}

	if *numPosts > 0 {
		posts, err := seed.NewFactory(db, *fakerSeed).CreatePostsForAll(ctx, *numPosts)
		if err != nil {
			log.Fatalf("Post generation failed: %v", err)
		}
		log.Printf("Generated %d posts", len(posts))
	}

	summary, err := seed.Summarize(ctx, db)
	if err != nil {
		log.Fatalf("Summary failed: %v", err)
	}
	log.Printf("Seeding complete: %s. Fixture members authenticate with their username as API key.", summary)
}
