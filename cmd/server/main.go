package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/vennparty/backend/internal/ai"
	"github.com/vennparty/backend/internal/ai/gemini"
	"github.com/vennparty/backend/internal/config"
	"github.com/vennparty/backend/internal/game"
	"github.com/vennparty/backend/internal/media"
	"github.com/vennparty/backend/internal/profile"
	"github.com/vennparty/backend/internal/ws"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Venn Party - Find what's in the middle

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  GEMINI_API_KEY      Gemini API key (bots and moderation degrade to fallbacks without it)
  GEMINI_BASE_URL     Custom Gemini API base URL (optional)
  GEMINI_MODEL        Gemini model to use (default: gemini-3-flash-preview)
  GIPHY_API_KEY       Giphy API key for the GIF search endpoint
  PROFILE_PATH        Directory for profile JSON files (default: data/profiles)
  PROFILE_DSN         Postgres DSN for profile storage (overrides PROFILE_PATH)
  EXPORT_ENABLED      Export match results to file (default: true)
  EXPORT_FILE         Path to export match results (default: data/matches.txt)
  ROUNDS              Default number of rounds (default: 5)
  ROUND_SECONDS       Default seconds per round (default: 60)
  SCORING_MODE        "competitive" or "casual" (default: competitive)
  MODERATOR_TONE      "funny" or "serious" (default: funny)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Venn Party %s\n", version)
		return
	}

	cfg := config.FromEnv()

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Profile storage: Postgres when a DSN is configured, JSON files otherwise.
	var store profile.Store
	if cfg.ProfileDSN != "" {
		gs, err := profile.NewGormStore(cfg.ProfileDSN)
		if err != nil {
			zerologlog.Fatal().Err(err).Msg("profile database unavailable")
		}
		store = gs
		zerologlog.Info().Msg("profiles stored in postgres")
	} else {
		fs, err := profile.NewFileStore(cfg.ProfilePath)
		if err != nil {
			zerologlog.Fatal().Err(err).Str("path", cfg.ProfilePath).Msg("profile directory unavailable")
		}
		store = fs
		zerologlog.Info().Str("path", cfg.ProfilePath).Msg("profiles stored on disk")
	}

	settings := game.DefaultSettings()
	settings.MaxRounds = cfg.Rounds
	settings.MaxTimer = cfg.RoundSeconds
	settings.ScoringMode = game.ScoringMode(cfg.ScoringMode)
	settings.ModeratorTone = game.ModeratorTone(cfg.ModeratorTone)

	g, err := game.NewGame(settings)
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("invalid default settings")
	}

	var provider ai.Provider = gemini.New(cfg.GeminiKey, cfg.GeminiBaseURL, cfg.GeminiModel)
	game.NewBotDriver(g, provider)
	game.NewNarrator(g, provider)

	sock := ws.New(g)
	io := sock.Mount(r)
	defer io.Close()

	// Persist history and export a summary once a match ends.
	g.Subscribe(func(ev game.Event) {
		if ev.Kind != game.EventMatchEnded {
			return
		}
		recordMatch(g, store)
		if cfg.ExportEnabled {
			if err := game.ExportMatch(g, cfg.ExportFile); err != nil {
				zerologlog.Error().Err(err).Str("file", cfg.ExportFile).Msg("failed to export match")
			} else {
				zerologlog.Info().Str("file", cfg.ExportFile).Msg("exported match")
			}
		}
	})

	// REST surface for clients that only need reads.
	r.GET("/api/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, g.Snapshot())
	})
	r.GET("/api/profile/:id", func(c *gin.Context) {
		p, err := store.Load(c.Param("id"))
		if err == profile.ErrNotFound {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	gifs := media.NewGiphyClient(cfg.GiphyKey, cfg.GiphyBaseURL)
	r.GET("/api/media/search", func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
			return
		}
		results, err := gifs.Search(c.Request.Context(), q)
		if err != nil {
			zerologlog.Warn().Err(err).Str("q", q).Msg("gif search failed")
			c.JSON(http.StatusOK, gin.H{"results": []media.GIF{}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	})

	// Every phase transition the engine makes on its own gets pushed
	// out immediately.
	g.Subscribe(func(game.Event) { sock.Broadcast() })

	// Countdown loop. The engine owns no timers; this is the only
	// place wall clock time enters the game.
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	go func() {
		lastTimer := -1
		for now := range ticker.C {
			g.Tick(now)
			if g.Phase() == game.PhaseRound {
				if t := g.Snapshot().Timer; t != lastTimer {
					lastTimer = t
					sock.Broadcast()
				}
			}
		}
	}()

	zerologlog.Info().Str("port", port).Str("code", g.RoomCode()).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server stopped")
	}
}

func recordMatch(g *game.Game, store profile.Store) {
	standings := g.Standings()
	settings := g.Settings()
	for i, p := range standings {
		if p.IsAI {
			continue
		}
		prof, err := store.Load(p.ID)
		if err == profile.ErrNotFound {
			prof = profile.Profile{ID: p.ID}
		} else if err != nil {
			zerologlog.Error().Err(err).Str("playerId", p.ID).Msg("failed to load profile")
			continue
		}
		prof.Name = p.Name
		prof.Avatar = p.Avatar
		prof.Color = p.Color
		prof.History = append(prof.History, profile.MatchResult{
			RoomCode:    g.RoomCode(),
			PlayedAt:    time.Now().UTC().Format(time.RFC3339),
			Rounds:      settings.MaxRounds,
			Score:       p.Score,
			Placement:   i + 1,
			PlayerCount: len(standings),
			ScoringMode: string(settings.ScoringMode),
		})
		if err := store.Save(prof); err != nil {
			zerologlog.Error().Err(err).Str("playerId", p.ID).Msg("failed to save profile")
		}
	}
}
