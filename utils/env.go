package utils

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv pulls a local .env file into the environment if one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, continuing...")
	}
}
