package timerhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

func TestCreateAndList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/timers":
			if r.Method == http.MethodPost {
				var req createRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if req.Name != "🔥 Roast the chicken" || req.DurationSeconds != 2100 {
					t.Fatalf("unexpected create request: %+v", req)
				}
				json.NewEncoder(w).Encode(createResponse{ID: "gw-1"})
				return
			}
			json.NewEncoder(w).Encode(listResponse{Timers: []wireTimer{
				{ID: "gw-1", Name: "🔥 Roast the chicken", DurationSeconds: 2100, RemainingSeconds: 1800, Status: "running"},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	log := logger.New(logger.LevelOff, nil)
	c := New(srv.URL, log)
	ctx := context.Background()

	id, err := c.CreateTimer(ctx, "🔥 Roast the chicken", 2100)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "gw-1" {
		t.Fatalf("id = %q, want gw-1", id)
	}

	timers, err := c.ListTimers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(timers) != 1 || timers[0].Status != domain.TimerRunning || timers[0].RemainingSeconds != 1800 {
		t.Fatalf("unexpected list: %+v", timers)
	}
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	log := logger.New(logger.LevelOff, nil)
	c := New(srv.URL, log)

	if err := c.StartTimer(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
