package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

// FakeAPI serves the ProtonDB summaries endpoint and the Steam Store and Web
// API endpoints this tool calls, backed by in-memory tables.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	tiers    map[string]string
	native   map[string]bool
	statuses map[string]int // "<service>:<appID>" -> forced HTTP status
	owned    map[string][]int
	apiKey   string
	hits     map[string]int
}

// NewFakeAPI starts a fake server that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		tiers:    make(map[string]string),
		native:   make(map[string]bool),
		statuses: make(map[string]int),
		owned:    make(map[string][]int),
		hits:     make(map[string]int),
	}

	r := chi.NewRouter()
	r.Get("/api/v1/reports/summaries/{appID}.json", f.handleSummary)
	r.Get("/api/appdetails", f.handleAppDetails)
	r.Get("/IPlayerService/GetOwnedGames/v1/", f.handleOwnedGames)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)

	return f
}

// URL returns the base URL for every fake service.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// SetTier makes ProtonDB report tier as the trending tier of appID.
func (f *FakeAPI) SetTier(appID string, tier string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tiers[appID] = tier
}

// SetNative makes the Steam Store report appID's Linux support.
func (f *FakeAPI) SetNative(appID string, native bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.native[appID] = native
}

// FailProtonDB forces status for appID's summary request.
func (f *FakeAPI) FailProtonDB(appID string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses["protondb:"+appID] = status
}

// FailStore forces status for appID's app details request.
func (f *FakeAPI) FailStore(appID string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses["store:"+appID] = status
}

// SetOwnedGames registers the library of steamID, guarded by apiKey.
func (f *FakeAPI) SetOwnedGames(apiKey string, steamID string, appIDs ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKey = apiKey
	f.owned[steamID] = appIDs
}

// Hits returns how many requests reached service ("protondb", "store",
// "webapi") for key (an app id, or a steam id for the Web API).
func (f *FakeAPI) Hits(service string, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[service+":"+key]
}

// TotalHits returns the number of requests made to service.
func (f *FakeAPI) TotalHits(service string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for key, n := range f.hits {
		if strings.HasPrefix(key, service+":") {
			total += n
		}
	}
	return total
}

func (f *FakeAPI) record(service string, key string) (status int, forced bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[service+":"+key]++
	status, forced = f.statuses[service+":"+key]
	return status, forced
}

func (f *FakeAPI) handleSummary(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "appID")

	status, forced := f.record("protondb", appID)
	if forced {
		w.WriteHeader(status)
		return
	}

	f.mu.Lock()
	tier, ok := f.tiers[appID]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, map[string]any{
		"bestReportedTier": tier,
		"confidence":       "strong",
		"score":            0.8,
		"tier":             tier,
		"total":            42,
		"trendingTier":     tier,
	})
}

func (f *FakeAPI) handleAppDetails(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("appids")

	status, forced := f.record("store", appID)
	if forced {
		w.WriteHeader(status)
		return
	}

	f.mu.Lock()
	native, ok := f.native[appID]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, map[string]any{appID: map[string]any{"success": false}})
		return
	}

	writeJSON(w, map[string]any{
		appID: map[string]any{
			"success": true,
			"data": map[string]any{
				"platforms": map[string]bool{"windows": true, "mac": false, "linux": native},
			},
		},
	})
}

func (f *FakeAPI) handleOwnedGames(w http.ResponseWriter, r *http.Request) {
	steamID := r.URL.Query().Get("steamid")
	f.record("webapi", steamID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Query().Get("key") != f.apiKey {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	games := make([]map[string]int, 0, len(f.owned[steamID]))
	for _, id := range f.owned[steamID] {
		games = append(games, map[string]int{"appid": id, "playtime_forever": 0})
	}

	writeJSON(w, map[string]any{
		"response": map[string]any{
			"game_count": len(games),
			"games":      games,
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode: %v", err), http.StatusInternalServerError)
	}
}
