package main

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Surubyuru/spy-game/config"
	"github.com/Surubyuru/spy-game/game"
	"github.com/Surubyuru/spy-game/logger"
	"github.com/Surubyuru/spy-game/migrations"
	"github.com/Surubyuru/spy-game/words"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	if len(allowedOrigins) > 0 {
		r.Use(func(ctx *gin.Context) {
			origin := ctx.Request.Header.Get("Origin")

			if origin == "" || slices.Contains(allowedOrigins, origin) {
				ctx.Next()
				return
			}
			ctx.String(http.StatusForbidden, "forbidden origin")
			ctx.Abort()
		})

		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowCredentials: true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{
				"Content-Type",
				"Authorization",
				"Upgrade",
				"Connection",
				"Sec-WebSocket-Key",
				"Sec-WebSocket-Version",
				"Sec-WebSocket-Extensions",
				"Sec-WebSocket-Protocol",
			},
		}))
	}

	return r
}

// wordSource bridges the words store to the game core and maps its
// empty-store error onto the game's taxonomy.
type wordSource struct {
	store words.Store
}

func (ws wordSource) RandomWord(ctx context.Context) (game.WordEntry, error) {
	entry, err := ws.store.GetRandomWord(ctx)
	if err != nil {
		if errors.Is(err, words.ErrNoWords) {
			return game.WordEntry{}, game.ErrNoWordsAvailable
		}
		return game.WordEntry{}, err
	}
	return game.WordEntry{Word: entry.Word, Category: entry.Category}, nil
}

func main() {
	cfg := config.Load()
	if cfg.Debug {
		logger.SetDebug()
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	if cfg.PostgresURL == "" {
		logger.Fatalf("Missing POSTGRES_URL")
	}

	migrations.Migrate(cfg.PostgresURL)

	store, err := words.NewPostgresStore(context.Background(), cfg.PostgresURL)
	if err != nil {
		logger.Fatalf("Failed to connect to postgres: %v", err)
	}

	r := CreateServer(cfg.AllowedOrigins)

	words.NewHandler(store).RegisterRoutes(r)

	hub := game.NewHub()
	directory := game.NewDirectory(
		wordSource{store: store},
		hub,
		time.Duration(cfg.GraceSeconds)*time.Second,
	)
	game.NewHandler(hub, directory).RegisterRoutes(r)

	logger.Infof("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}
