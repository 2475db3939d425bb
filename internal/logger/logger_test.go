package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Level(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{name: "debug", level: "debug", expected: zerolog.DebugLevel},
		{name: "mixed case", level: " WARN ", expected: zerolog.WarnLevel},
		{name: "empty", level: "", expected: zerolog.InfoLevel},
		{name: "unknown", level: "verbose", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(&bytes.Buffer{}, tt.level, "json")
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	setup(&buf, "info", "json")
	defer func() { log.Logger = zerolog.New(&bytes.Buffer{}) }()

	r := gin.New()
	r.Use(Middleware())
	r.GET("/sessions/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/sessions/:id", line["route"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, "request", line["message"])
}
