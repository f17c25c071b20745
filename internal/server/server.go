// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes a collated transfer dataset over HTTP:
//
//	GET /api/transfers?team=&direction=   transfers, optionally filtered
//	GET /api/teams                        sorted distinct team names
//
// Every response allows any origin. The dataset is a JSON file written by
// the collect command; Watch reloads it when the file changes.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/transfer-desk/internal/rank"
	"github.com/pdiddy/transfer-desk/internal/store"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Server holds the dataset in memory and answers queries over it.
type Server struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	records []types.Transfer
}

// New returns a server over records. Path is the file Reload and Watch read;
// it may be empty for a fixed dataset.
func New(path string, records []types.Transfer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{path: path, records: records, logger: logger}
}

// Open loads the dataset at path.
func Open(path string, logger *slog.Logger) (*Server, error) {
	s := New(path, nil, logger)
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the dataset with the file contents. On error the current
// dataset is kept.
func (s *Server) Reload() error {
	records, err := store.ReadJSON(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	s.logger.Info("dataset loaded", "path", s.path, "transfers", len(records))
	return nil
}

// Records returns the current dataset.
func (s *Server) Records() []types.Transfer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transfers", s.handleTransfers)
	mux.HandleFunc("GET /api/teams", s.handleTeams)
	return cors(mux)
}

func (s *Server) handleTransfers(w http.ResponseWriter, r *http.Request) {
	q := rank.Query{Team: r.URL.Query().Get("team")}

	dir := r.URL.Query().Get("direction")
	if dir == "" {
		dir = r.URL.Query().Get("type")
	}
	if dir != "" {
		d, ok := types.ParseDirection(dir)
		if !ok {
			writeError(w, http.StatusBadRequest, "direction must be in or out")
			return
		}
		q.Direction = d
	}

	writeJSON(w, http.StatusOK, rank.Filter(s.Records(), q))
}

func (s *Server) handleTeams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rank.Teams(s.Records()))
}

// cors allows any origin and answers preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	var err error
	if records, ok := v.([]types.Transfer); ok {
		err = store.EncodeJSON(&buf, records)
	} else {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		err = enc.Encode(v)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Watch reloads the dataset whenever its file is written or replaced, until
// ctx is done. The parent directory is watched so that atomic renames are
// seen.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("reload failed, keeping previous dataset", "path", s.path, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "error", err)
		}
	}
}

// ListenAndServe serves the API on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
