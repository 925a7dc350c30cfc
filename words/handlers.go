package words

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Surubyuru/spy-game/logger"
)

// Handler exposes the word CRUD API consumed by the admin frontend and
// the "random entry" endpoint the game relies on.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/words", h.ListWordsHandler)
	api.GET("/word/random", h.RandomWordHandler)
	api.POST("/words", h.AddWordHandler)
	api.DELETE("/words/:id", h.DeleteWordHandler)
}

func (h *Handler) ListWordsHandler(ctx *gin.Context) {
	entries, err := h.store.ListWords(ctx.Request.Context())
	if err != nil {
		logger.Errorf("Failed to list words: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch words"})
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

func (h *Handler) RandomWordHandler(ctx *gin.Context) {
	entry, err := h.store.GetRandomWord(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoWords) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no words available"})
			return
		}
		logger.Errorf("Failed to fetch random word: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch random word"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"word": entry.Word, "category": entry.Category})
}

type addWordRequest struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

func (h *Handler) AddWordHandler(ctx *gin.Context) {
	var req addWordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Word == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "word is required"})
		return
	}

	entry, err := h.store.AddWord(ctx.Request.Context(), req.Word, req.Category)
	if err != nil {
		if errors.Is(err, ErrDuplicateWord) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "word already exists"})
			return
		}
		logger.Errorf("Failed to add word: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save word"})
		return
	}

	ctx.JSON(http.StatusOK, entry)
}

func (h *Handler) DeleteWordHandler(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid word id"})
		return
	}

	if err := h.store.DeleteWord(ctx.Request.Context(), id); err != nil {
		logger.Errorf("Failed to delete word %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete word"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "word deleted"})
}
