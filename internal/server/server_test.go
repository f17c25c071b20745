// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transfer-desk/internal/store"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

func sample() []types.Transfer {
	return []types.Transfer{
		{ID: 1, PlayerName: "Kacper Urbański", FromTeam: "Bologna", ToTeam: "Legia Warszawa", Fee: types.FeeLoan, TransferDate: "2025-01-08", Direction: types.DirectionIn},
		{ID: 2, PlayerName: "Jan Nowak", FromTeam: "Lech Poznań", ToTeam: types.UnknownTeam, Fee: types.UnknownFee, TransferDate: "2025-01-05", Direction: types.DirectionOut},
		{ID: 3, PlayerName: "Piotr Zieliński", FromTeam: types.FreeAgent, ToTeam: "Lech Poznań", Fee: types.FreeAgent, TransferDate: "2025-01-02", Direction: types.DirectionIn},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) []types.Transfer {
	t.Helper()
	var out []types.Transfer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestTransfers(t *testing.T) {
	h := New("", sample(), nil).Handler()

	tests := []struct {
		name    string
		target  string
		players []string
	}{
		{"all", "/api/transfers", []string{"Kacper Urbański", "Jan Nowak", "Piotr Zieliński"}},
		{"team", "/api/transfers?team=Lech+Pozna%C5%84", []string{"Jan Nowak", "Piotr Zieliński"}},
		{"direction", "/api/transfers?direction=in", []string{"Kacper Urbański", "Piotr Zieliński"}},
		{"type alias", "/api/transfers?type=out", []string{"Jan Nowak"}},
		{"team and direction", "/api/transfers?team=Lech+Pozna%C5%84&direction=in", []string{"Piotr Zieliński"}},
		{"no match", "/api/transfers?team=Wisła+Kraków", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			players := []string{}
			for _, tr := range decode(t, rec) {
				players = append(players, tr.PlayerName)
			}
			assert.Equal(t, tt.players, players)
		})
	}
}

func TestTransfers_EmptyIsArray(t *testing.T) {
	rec := get(t, New("", nil, nil).Handler(), "/api/transfers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestTransfers_InvalidDirection(t *testing.T) {
	rec := get(t, New("", sample(), nil).Handler(), "/api/transfers?direction=sideways")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "direction")
}

func TestTeams(t *testing.T) {
	rec := get(t, New("", sample(), nil).Handler(), "/api/teams")
	require.Equal(t, http.StatusOK, rec.Code)

	var teams []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teams))
	assert.Equal(t, []string{"Bologna", "Lech Poznań", "Legia Warszawa"}, teams)
}

func TestPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/transfers", nil)
	New("", sample(), nil).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, New("", sample(), nil).Handler(), "/api/players")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transfers.json")
	require.NoError(t, store.WriteJSON(path, sample()))

	s, err := Open(path, nil)
	require.NoError(t, err)
	assert.Len(t, s.Records(), 3)

	_, err = Open(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestReload_KeepsDataOnMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transfers.json")
	require.NoError(t, store.WriteJSON(path, sample()))
	s, err := Open(path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	assert.ErrorIs(t, s.Reload(), store.ErrMalformed)
	assert.Len(t, s.Records(), 3)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transfers.json")
	require.NoError(t, store.WriteJSON(path, sample()))
	s, err := Open(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// Rewrite until the watcher is attached and picks the change up.
	require.Eventually(t, func() bool {
		_ = store.WriteJSON(path, sample()[:1])
		return len(s.Records()) == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := New("", sample(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
