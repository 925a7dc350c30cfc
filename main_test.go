package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surubyuru/spy-game/game"
	"github.com/Surubyuru/spy-game/words"
)

func TestServerSecurity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := CreateServer([]string{"http://localhost:5173", "https://spygame.example"})
	r.GET("/testroute", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "success")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	res := httptest.NewRecorder()

	r.ServeHTTP(res, req)
	assert.Equal(t, "healthy", res.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/testroute", nil)
	req.Header.Add("Origin", "http://evil.com")
	res = httptest.NewRecorder()

	r.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "forbidden origin", res.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/testroute", nil)
	req.Header.Add("Origin", "https://spygame.example")
	res = httptest.NewRecorder()

	r.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "success", res.Body.String())
}

func TestServerWithoutOriginListAllowsAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := CreateServer(nil)
	r.GET("/testroute", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "success")
	})

	req := httptest.NewRequest(http.MethodGet, "/testroute", nil)
	req.Header.Add("Origin", "http://anywhere.example")
	res := httptest.NewRecorder()

	r.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}

type stubStore struct {
	entry words.Entry
	err   error
}

func (s stubStore) GetRandomWord(ctx context.Context) (words.Entry, error) {
	return s.entry, s.err
}
func (s stubStore) ListWords(ctx context.Context) ([]words.Entry, error) { return nil, nil }
func (s stubStore) AddWord(ctx context.Context, word, category string) (words.Entry, error) {
	return words.Entry{}, nil
}
func (s stubStore) DeleteWord(ctx context.Context, id int) error { return nil }

func TestWordSourceBridge(t *testing.T) {
	src := wordSource{store: stubStore{entry: words.Entry{Word: "Manzana", Category: "Frutas"}}}

	entry, err := src.RandomWord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.WordEntry{Word: "Manzana", Category: "Frutas"}, entry)

	src = wordSource{store: stubStore{err: words.ErrNoWords}}
	_, err = src.RandomWord(context.Background())
	assert.ErrorIs(t, err, game.ErrNoWordsAvailable)

	dbErr := errors.New("connection reset")
	src = wordSource{store: stubStore{err: dbErr}}
	_, err = src.RandomWord(context.Background())
	assert.ErrorIs(t, err, dbErr)
}
