package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GeminiKey     string
	GeminiBaseURL string
	GeminiModel   string
	GiphyKey      string
	GiphyBaseURL  string
	ProfilePath   string
	ProfileDSN    string
	ExportEnabled bool
	ExportFile    string
	Rounds        int
	RoundSeconds  int
	ScoringMode   string
	ModeratorTone string
}

func FromEnv() Config {
	_ = godotenv.Load()

	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.GeminiKey = os.Getenv("GEMINI_API_KEY")
	c.GeminiBaseURL = os.Getenv("GEMINI_BASE_URL")
	c.GeminiModel = os.Getenv("GEMINI_MODEL")
	c.GiphyKey = os.Getenv("GIPHY_API_KEY")
	c.GiphyBaseURL = os.Getenv("GIPHY_BASE_URL")
	c.ProfilePath = getenv("PROFILE_PATH", "data/profiles")
	c.ProfileDSN = os.Getenv("PROFILE_DSN")
	c.ExportEnabled = getenv("EXPORT_ENABLED", "true") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "data/matches.txt")
	c.Rounds = getint("ROUNDS", 5)
	c.RoundSeconds = getint("ROUND_SECONDS", 60)
	c.ScoringMode = getenv("SCORING_MODE", "competitive")
	c.ModeratorTone = getenv("MODERATOR_TONE", "funny")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
