package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// SpotifyServer fakes the accounts token endpoint and the show endpoints
type SpotifyServer struct {
	*httptest.Server

	ShowID   string
	ShowName string
	Episodes int
	// FailOn makes the n-th episodes request (1-based) answer 500
	FailOn int

	mu      sync.Mutex
	offsets []int
}

// NewSpotifyServer starts a fake API; it is closed by t.Cleanup
func NewSpotifyServer(t testing.TB, showID, showName string, episodes int) *SpotifyServer {
	t.Helper()

	s := &SpotifyServer{ShowID: showID, ShowName: showName, Episodes: episodes}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", s.handleToken)
	mux.HandleFunc("/v1/shows/", s.handleShows)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value for spotify.base_url
func (s *SpotifyServer) BaseURL() string {
	return s.URL + "/v1"
}

// TokenURL is the value for spotify.token_url
func (s *SpotifyServer) TokenURL() string {
	return s.URL + "/api/token"
}

// Offsets returns the offsets of the episodes requests received so far
func (s *SpotifyServer) Offsets() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.offsets...)
}

func (s *SpotifyServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := r.BasicAuth(); !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]interface{}{
		"access_token": "fake-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (s *SpotifyServer) handleShows(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer fake-token" {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]interface{}{"error": map[string]interface{}{"status": 401, "message": "No token provided"}})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/shows/")
	id, sub, _ := strings.Cut(rest, "/")
	if id != s.ShowID {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]interface{}{"error": map[string]interface{}{"status": 404, "message": "Non existing id"}})
		return
	}

	switch sub {
	case "":
		writeJSON(w, map[string]interface{}{
			"id":             s.ShowID,
			"name":           s.ShowName,
			"publisher":      "Fake Publisher",
			"total_episodes": s.Episodes,
		})
	case "episodes":
		s.handleEpisodes(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *SpotifyServer) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	s.mu.Lock()
	s.offsets = append(s.offsets, offset)
	n := len(s.offsets)
	s.mu.Unlock()

	if s.FailOn == n {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]interface{}{"error": map[string]interface{}{"status": 500, "message": "Server error"}})
		return
	}

	end := min(offset+limit, s.Episodes)
	items := make([]map[string]interface{}, 0, limit)
	for i := offset; i < end; i++ {
		items = append(items, map[string]interface{}{
			"id":          fmt.Sprintf("ep%d", i),
			"name":        EpisodeTitle(i),
			"duration_ms": EpisodeDuration(i),
		})
	}

	var next interface{}
	if end < s.Episodes {
		next = fmt.Sprintf("%s/v1/shows/%s/episodes?offset=%d&limit=%d", s.URL, s.ShowID, end, limit)
	}

	writeJSON(w, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  s.Episodes,
		"next":   next,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
