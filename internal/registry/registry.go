package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"incorporator/internal/domain"
)

// Registry is an in-memory set of taken entity names per jurisdiction.
type Registry struct {
	mu    sync.RWMutex
	taken map[string]struct{}
}

// New returns a Registry with the given names taken in Delaware.
func New(taken ...string) *Registry {
	r := &Registry{taken: make(map[string]struct{})}
	for _, n := range taken {
		r.Reserve(domain.Delaware, n)
	}
	return r
}

func key(state domain.Jurisdiction, name string) string {
	return string(state) + "|" + Normalize(name)
}

// Normalize folds case and whitespace so "Acme  llc" matches "ACME LLC".
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Reserve marks name as taken in state.
func (r *Registry) Reserve(state domain.Jurisdiction, name string) {
	r.mu.Lock()
	r.taken[key(state, name)] = struct{}{}
	r.mu.Unlock()
}

// Check reports availability and, for taken names, up to three free variants.
func (r *Registry) Check(state domain.Jurisdiction, name string) domain.NameCheckResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.taken[key(state, name)]; !ok {
		return domain.NameCheckResult{Available: true}
	}
	base, ending := splitEnding(name)
	var suggestions []string
	for _, variant := range []string{"Group", "Holdings", "Labs", "Partners", "Ventures"} {
		candidate := strings.TrimSpace(base + " " + variant + " " + ending)
		if _, ok := r.taken[key(state, candidate)]; !ok {
			suggestions = append(suggestions, candidate)
		}
		if len(suggestions) == 3 {
			break
		}
	}
	return domain.NameCheckResult{Available: false, Suggestions: suggestions}
}

func splitEnding(name string) (base, ending string) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name, ""
	}
	for _, t := range domain.CompanyTypes() {
		for _, e := range domain.EntityEndings(domain.Delaware, t) {
			if strings.HasSuffix(strings.ToLower(name), " "+strings.ToLower(e)) {
				return strings.TrimSpace(name[:len(name)-len(e)]), e
			}
		}
	}
	return name, ""
}

type checkRequest struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// Handler serves the name-check API.
//
//	POST /v1/names/check {"name": "...", "state": "DE"}
//	    -> 200 {"available": bool, "suggestions": [...]}
//	GET /healthz
//	    -> 200 ok
//
// Malformed requests get 400, unsupported states 422.
func (r *Registry) Handler(log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/names/check", func(w http.ResponseWriter, req *http.Request) {
		defer req.Body.Close()
		var in checkRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(in.Name) == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		state := domain.Jurisdiction(strings.ToUpper(in.State))
		if state != domain.Delaware {
			http.Error(w, fmt.Sprintf("unsupported state %q", in.State), http.StatusUnprocessableEntity)
			return
		}
		res := r.Check(state, in.Name)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
		log.Info("name checked", "name", in.Name, "state", state, "available", res.Available)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	return accessLog(log, mux)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessLog records method, path, remote, status, bytes and duration.
func accessLog(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, req)
		log.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"remote", req.RemoteAddr,
			"status", sw.status,
			"bytes", sw.bytes,
			"duration", time.Since(start),
		)
	})
}
