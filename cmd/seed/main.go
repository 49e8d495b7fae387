// Command main runs the database seeder for CampusHub.
package main

import (
	"flag"
	"log"

	"campushub/internal/config"
	"campushub/internal/database"
	"campushub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numCourses := flag.Int("courses", 12, "Number of courses to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	clean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d courses, %d posts, clean=%v\n",
		*numUsers, *numCourses, *numPosts, *clean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *clean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(seed.Options{
		NumUsers:   *numUsers,
		NumCourses: *numCourses,
		NumPosts:   *numPosts,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
