package config

import "os"

// Config holds environment-driven configuration.
type Config struct {
	Addr         string
	DatabaseURL  string
	JWTSecret    string
	ImagesDir    string
	SettingsFile string

	// collaborator credentials; empty means "unconfigured"
	AdminPassword    string
	StripeSecretKey  string
	NotionAPIKey     string
	NotionDatabaseID string
}

// Load reads configuration from environment variables.
func Load() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	imagesDir := os.Getenv("IMAGES_DIR")
	if imagesDir == "" {
		imagesDir = "./public/images"
	}
	settingsFile := os.Getenv("SETTINGS_FILE")
	if settingsFile == "" {
		settingsFile = ".env.local"
	}

	return Config{
		Addr:             addr,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		ImagesDir:        imagesDir,
		SettingsFile:     settingsFile,
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		NotionAPIKey:     os.Getenv("NOTION_API_KEY"),
		NotionDatabaseID: os.Getenv("NOTION_DATABASE_ID"),
	}
}
