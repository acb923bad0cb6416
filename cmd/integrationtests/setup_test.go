package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"auction-engine/internal/config"
	"auction-engine/internal/engine"
	"auction-engine/internal/events"
	"auction-engine/internal/lifecycle"
	"auction-engine/internal/server"
	"auction-engine/internal/settlement"
	"auction-engine/internal/store"

	"github.com/gin-gonic/gin"
)

// SetupTestRouter wires the full engine stack over an in-memory store, the
// way main does, with the development payment gateway.
func SetupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	st := store.NewMemoryStore()
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	scheduler := lifecycle.NewScheduler(st, bus, cfg)
	t.Cleanup(scheduler.Stop)

	eng := engine.NewEngine(st, bus, cfg, scheduler)
	settler := settlement.NewService(st, bus, cfg, settlement.DevGateway{})
	scheduler.SetSettler(settler)

	return server.SetupRouter(eng, scheduler)
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code >= 200 && w.Code < 300 {
			if data, ok := resp["data"].(map[string]any); ok {
				resp = data
			}
		}
	}

	return resp, w
}
