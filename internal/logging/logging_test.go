package logging

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	path := filepath.Join(t.TempDir(), "logs", "verifier.log")
	closer, err := Setup(Options{Environment: "production", Level: "debug", File: path})
	require.NoError(t, err)

	log.Debug().Str("scenario", "cards").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario":"cards"`)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetupFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	_, err := Setup(Options{Level: "loud"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestGinLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "api.log")
	closer, err := Setup(Options{Environment: "production", Level: "info", File: path})
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinLogger(func(c *gin.Context) string { return c.GetString("client") }))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/named", func(c *gin.Context) {
		c.Set("client", "ops-dashboard")
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/named", nil))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"warn"`)
	assert.Contains(t, string(data), `"status":404`)
	assert.Contains(t, string(data), `"client":"ops-dashboard"`)
	assert.Equal(t, 1, strings.Count(string(data), `"client"`))
}
