package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"
)

// gameServer is a test double for the game API: one character, a handful of
// catalog categories, and per-endpoint request counting.
type gameServer struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server

	mu          sync.Mutex
	version     string
	character   Character
	cooldown    time.Duration
	counts      map[string]int
	actionTimes []time.Time

	// actionStatus forces a status code for an action verb, e.g.
	// "move" -> 490. Zero means success.
	actionStatus map[string]int

	// actionFailures makes the first n calls to a verb fail with 500
	// before succeeding.
	actionFailures map[string]int

	// catalogFail makes a category's endpoint return 500.
	catalogFail map[string]bool

	catalogs map[string][]json.RawMessage
}

func newGameServer(t *testing.T) *gameServer {
	g := &gameServer{
		t:       t,
		mux:     http.NewServeMux(),
		version: "v1.0",
		character: Character{
			Name:              "Testbirb",
			Level:             5,
			HP:                100,
			MaxHP:             100,
			X:                 0,
			Y:                 0,
			InventoryMaxItems: 20,
		},
		cooldown:       5 * time.Millisecond,
		counts:         make(map[string]int),
		actionStatus:   make(map[string]int),
		actionFailures: make(map[string]int),
		catalogFail:    make(map[string]bool),
		catalogs:       make(map[string][]json.RawMessage),
	}

	g.mux.HandleFunc("/", g.handleRoot)
	g.mux.HandleFunc("/characters/", g.handleCharacter)
	g.mux.HandleFunc("/my/Testbirb/action/", g.handleAction)
	g.mux.HandleFunc("/items", g.catalogHandler("items"))
	g.mux.HandleFunc("/maps", g.catalogHandler("maps"))
	g.mux.HandleFunc("/monsters", g.catalogHandler("monsters"))
	g.mux.HandleFunc("/resources", g.catalogHandler("resources"))
	g.mux.HandleFunc("/tasks/list", g.catalogHandler("tasks"))
	g.mux.HandleFunc("/tasks/rewards", g.catalogHandler("task_rewards"))
	g.mux.HandleFunc("/achievements", g.catalogHandler("achievements"))

	g.srv = httptest.NewServer(g.mux)
	t.Cleanup(g.srv.Close)
	return g
}

// client builds an SDK client pointed at the server, with retries sped up
// and the cache database placed in a test temp dir.
func (g *gameServer) client(t *testing.T) *Client {
	config := DefaultConfig().
		WithBaseURL(g.srv.URL).
		WithToken("test-token").
		WithCharacter("Testbirb").
		WithCachePath(filepath.Join(t.TempDir(), "cache.db")).
		WithRetryStrategy(&ConstantBackoffStrategy{Interval: time.Millisecond, MaxAttempts: 3})

	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func (g *gameServer) count(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counts[key]
}

// actionArrivals returns when each action request reached the server.
func (g *gameServer) actionArrivals() []time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]time.Time(nil), g.actionTimes...)
}

func (g *gameServer) setVersion(v string) {
	g.mu.Lock()
	g.version = v
	g.mu.Unlock()
}

func (g *gameServer) setCatalog(category string, records ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.catalogs[category] = nil
	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			g.t.Fatalf("encoding %s record: %v", category, err)
		}
		g.catalogs[category] = append(g.catalogs[category], raw)
	}
}

func (g *gameServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusNotFound)
		writeGameError(w, "not found")
		return
	}
	g.mu.Lock()
	g.counts["root"]++
	version := g.version
	g.mu.Unlock()

	writeData(w, ServerDetails{Status: "online", Version: version})
}

func (g *gameServer) handleCharacter(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.counts["character"]++
	char := g.character
	g.mu.Unlock()

	if r.URL.Path != "/characters/Testbirb" {
		w.WriteHeader(http.StatusNotFound)
		writeGameError(w, "character not found")
		return
	}
	writeData(w, char)
}

func (g *gameServer) handleAction(w http.ResponseWriter, r *http.Request) {
	verb := r.URL.Path[len("/my/Testbirb/action/"):]

	g.mu.Lock()
	g.counts["action/"+verb]++
	g.actionTimes = append(g.actionTimes, time.Now())
	if remaining := g.actionFailures[verb]; remaining > 0 {
		g.actionFailures[verb] = remaining - 1
		g.mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
		writeGameError(w, "boom")
		return
	}
	if status := g.actionStatus[verb]; status != 0 {
		g.mu.Unlock()
		w.WriteHeader(status)
		writeGameError(w, fmt.Sprintf("action rejected with %d", status))
		return
	}
	g.character.CooldownExpiration = time.Now().Add(g.cooldown)
	g.mu.Unlock()

	writeData(w, map[string]string{"ok": "true"})
}

// catalogHandler serves a category with real pagination over the stored
// records.
func (g *gameServer) catalogHandler(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.counts["catalog/"+category]++
		records := g.catalogs[category]
		failing := g.catalogFail[category]
		g.mu.Unlock()

		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			writeGameError(w, "boom")
			return
		}

		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		if size < 1 {
			size = maxPageSize
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}

		pages := (len(records) + size - 1) / size
		if pages < 1 {
			pages = 1
		}
		start := (page - 1) * size
		end := start + size
		if start > len(records) {
			start = len(records)
		}
		if end > len(records) {
			end = len(records)
		}

		resp := listResponse[json.RawMessage]{
			Data:  records[start:end],
			Total: len(records),
			Page:  page,
			Size:  size,
			Pages: pages,
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func writeData(w http.ResponseWriter, payload any) {
	json.NewEncoder(w).Encode(map[string]any{"data": payload})
}

func writeGameError(w http.ResponseWriter, message string) {
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message},
	})
}
