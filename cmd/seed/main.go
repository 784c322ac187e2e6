package main

import (
	"context"
	"fmt"
	"os"

	"github.com/eleven-am/voice-recorder/internal/profile"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sampleTranscripts = []string{
	"I have been a driver for Uber since 2020",
	"I work as a driver in Nairobi, mostly airport runs",
	"I joined Uber in 2020 and I deliver food on weekends",
}

func main() {
	_ = godotenv.Load()

	dialector := sqlite.Open("voice.db")
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	store := profile.NewStore(db)
	if err := store.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate: %v\n", err)
		os.Exit(1)
	}

	for _, text := range sampleTranscripts {
		data := profile.Extract(text)
		p := &profile.Profile{
			Name:        profile.NameOf(data),
			ProfileData: data,
		}
		if err := store.Create(context.Background(), p); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create profile: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Profile %d: %v\n", p.ID, data)
	}

	fmt.Println("")
	fmt.Printf("Seeded %d profiles. List them with:\n", len(sampleTranscripts))
	fmt.Println("  curl http://localhost:5001/profiles")
}
