package main

import "os"

// Config holds environment-based configuration for the MCP server
type Config struct {
	Region  string
	Profile string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Region:  getEnvOrDefault("AWS_REGION", "us-east-1"),
		Profile: os.Getenv("AWS_PROFILE"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
