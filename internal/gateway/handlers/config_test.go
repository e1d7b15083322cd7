package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"pacer/internal/config"
)

func newConfigRouter(t *testing.T) (*mux.Router, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	config.Reset()
	t.Cleanup(config.Reset)
	if _, err := config.Load(path); err != nil {
		t.Fatalf("load config: %v", err)
	}

	router := mux.NewRouter()
	NewConfigHandler(path).RegisterRoutes(router)
	return router, path
}

func TestConfigHandler_Get(t *testing.T) {
	router, _ := newConfigRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/config")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var cfg config.Config
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Gateway.Port != 18690 {
		t.Errorf("gateway.port = %d, want 18690", cfg.Gateway.Port)
	}
}

func TestConfigHandler_Put(t *testing.T) {
	router, path := newConfigRouter(t)

	cfg := config.GetConfig()
	updated := *cfg
	updated.Game.StrokeSpeedMax = 6
	// Inverted bounds are normalized rather than rejected.
	updated.Game.GameDurationMin = 20
	updated.Game.GameDurationMax = 10

	body, _ := json.Marshal(updated)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/config", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var got config.Config
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Game.StrokeSpeedMax != 6 {
		t.Errorf("stroke_speed_max = %v, want 6", got.Game.StrokeSpeedMax)
	}
	if got.Game.GameDurationMin != 10 || got.Game.GameDurationMax != 20 {
		t.Errorf("duration bounds = %v..%v, want 10..20", got.Game.GameDurationMin, got.Game.GameDurationMax)
	}

	// The update survives a fresh load from disk.
	config.Reset()
	reloaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Game.StrokeSpeedMax != 6 {
		t.Errorf("persisted stroke_speed_max = %v, want 6", reloaded.Game.StrokeSpeedMax)
	}
}

func TestConfigHandler_GameSubresource(t *testing.T) {
	router, _ := newConfigRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/config/game")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", w.Code, http.StatusOK)
	}
	var game config.GameConfig
	if err := json.Unmarshal(w.Body.Bytes(), &game); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if game.StrokeSpeedMax != 4 {
		t.Errorf("stroke_speed_max = %v, want 4", game.StrokeSpeedMax)
	}

	game.StrokeSpeedMax = 5
	game.GameDurationMin = 3
	game.GameDurationMax = 8
	body, _ := json.Marshal(game)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/config/game", strings.NewReader(string(body)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var updated config.GameConfig
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.StrokeSpeedMax != 5 || updated.GameDurationMax != 8 {
		t.Errorf("updated game = %+v", updated)
	}

	// The rest of the configuration is untouched.
	if got := config.GetConfig().Gateway.Port; got != 18690 {
		t.Errorf("gateway.port = %d, want 18690", got)
	}
}

func TestConfigHandler_PutInvalidBody(t *testing.T) {
	router, _ := newConfigRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/config", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
