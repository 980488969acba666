// Command main runs the database seeder for Campus.
package main

import (
	"context"
	"flag"
	"log"

	"campus/internal/config"
	"campus/internal/database"
	"campus/internal/seed"
)

func main() {
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	institutions := flag.Int("institutions", 3, "Number of institutions to spread authors across")
	usersPerInst := flag.Int("users", 20, "Number of users per institution")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d posts, %d institutions, %d users each, clean=%v\n",
		*numPosts, *institutions, *usersPerInst, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	f := seed.NewFactory(db, seed.Options{
		Institutions: *institutions,
		UsersPerInst: *usersPerInst,
		NumPosts:     *numPosts,
		ShouldClean:  *shouldClean,
	})

	if err := f.Run(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
