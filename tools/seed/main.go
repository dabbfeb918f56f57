package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"skill-swap/config"
	"skill-swap/internal/model"
	"skill-swap/internal/repository"
	"skill-swap/internal/seed"
	"skill-swap/pkg/db"
	"skill-swap/pkg/logger"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "config file path")
	fake := flag.Int("fake", 0, "number of extra random users to create")
	randSeed := flag.Int64("seed", 0, "random seed for generated users (0 = random)")
	verify := flag.Bool("verify", false, "print users and skills after seeding")
	flag.Parse()

	cfg := config.LoadConfigFrom(*configPath)
	if _, err := logger.InitLogger(cfg.Log); err != nil {
		log.Fatalf("Init logger failed: %v", err)
	}
	defer logger.Sync()

	if _, err := db.InitDB(cfg.Database); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.CloseDB()
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	fmt.Println("Seeding demo data...")
	res, err := seed.NewSeeder(db.GetDB(), seed.Options{FakeUsers: *fake, RandSeed: *randSeed}).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	fmt.Printf("Users created: %d, skipped: %d, skills created: %d\n", res.UsersCreated, res.UsersSkipped, res.SkillsCreated)
	fmt.Printf("All demo users have the password: %s\n", seed.DemoPassword)

	if *verify {
		skills, err := repository.NewSkillRepository(db.GetDB()).List(ctx, model.SkillFilter{})
		if err != nil {
			log.Fatalf("List skills failed: %v", err)
		}
		fmt.Printf("\nSkills (%d):\n", len(skills))
		for _, s := range skills {
			owner := "?"
			if s.User != nil {
				owner = s.User.Username
			}
			fmt.Printf("  #%-4d %-28s %-9s %-6s %s\n", s.ID, s.Title, s.Category, s.Type, owner)
		}
	}
}
