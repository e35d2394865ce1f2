package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
)

// newTestEngine returns a gin engine with both middlewares writing JSON log lines into buf.
func newTestEngine(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := NewWithWriter(config.LogConfig{Level: "debug", Format: "json"}, buf)
	router := gin.New()
	router.Use(GinLogger(log), GinRecovery(log))
	router.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	router.GET("/boom", func(c *gin.Context) { panic("boom") })
	return router
}

// lastEntry decodes the last JSON line written to buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestGinLogger(t *testing.T) {
	var buf bytes.Buffer
	router := newTestEngine(&buf)

	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/ok?limit=5", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	entry := lastEntry(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ok?limit=5", entry["path"])
	assert.Equal(t, 200.0, entry["status"])
}

// TestGinRecovery verifies that a panicking handler results in a 500 response and an error entry.
func TestGinRecovery(t *testing.T) {
	var buf bytes.Buffer
	router := newTestEngine(&buf)

	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, buf.String(), "recovered from panic")
	entry := lastEntry(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, 500.0, entry["status"])
}

func TestNewWithWriterFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "nonsense", Format: "json"}, &buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
