package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"traceroute-monitor/internal/database"
	"traceroute-monitor/internal/models"
	"traceroute-monitor/internal/report"
)

func setupServer(t *testing.T, names []string) *httptest.Server {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "traceroute.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Now()
	rows := []models.TracerouteResult{
		{Timestamp: now.Add(-time.Minute).Unix(), ConnectionName: "fiber", TargetIP: "8.8.8.8", PacketLoss: 4},
		{Timestamp: now.Add(-2 * time.Minute).Unix(), ConnectionName: "fiber", TargetIP: "8.8.8.8", PacketLoss: 8},
		{Timestamp: now.Add(-48 * time.Hour).Unix(), ConnectionName: "cable", TargetIP: "8.8.8.8", PacketLoss: 60},
	}
	for _, r := range rows {
		if _, err := db.SaveResult(r); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	log := zap.NewNop()
	srv := New(db, report.NewGenerator(db, log), names, 0, log)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestIndex(t *testing.T) {
	ts := setupServer(t, nil)

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	page := string(body)
	if !strings.Contains(page, "<h2>cable</h2>") || !strings.Contains(page, "<h2>fiber</h2>") {
		t.Errorf("page does not list both connections")
	}
}

func TestConnections(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected []string
	}{
		{"from database", nil, []string{"cable", "fiber"}},
		{"configured", []string{"fiber"}, []string{"fiber"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupServer(t, tt.names)
			_, body := get(t, ts.URL+"/api/connections")

			var got []string
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("connections = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAverages(t *testing.T) {
	ts := setupServer(t, nil)

	resp, body := get(t, ts.URL+"/api/averages?connection=fiber")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got []models.ConnectionSummary
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ConnectionName != "fiber" {
		t.Fatalf("averages = %+v", got)
	}
	if first := got[0].Averages[0]; first.Window != "Last 15 minutes" || first.PacketLoss != 6 {
		t.Errorf("15 minute average = %+v, want 6", first)
	}

	_, body = get(t, ts.URL+"/api/averages")
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d summaries, want 2", len(got))
	}
}

func TestResults(t *testing.T) {
	ts := setupServer(t, nil)

	tests := []struct {
		query  string
		status int
		rows   int
	}{
		{"", http.StatusOK, 2},
		{"?hours=72", http.StatusOK, 3},
		{"?hours=72&connection=cable", http.StatusOK, 1},
		{"?hours=abc", http.StatusBadRequest, 0},
		{"?hours=-1", http.StatusBadRequest, 0},
		{"?hours=2562047", http.StatusOK, 3},
		{"?hours=2562048", http.StatusBadRequest, 0},
		{"?hours=3000000", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/api/results"+tt.query)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var got []models.TracerouteResult
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != tt.rows {
				t.Errorf("got %d rows, want %d", len(got), tt.rows)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := setupServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/averages", nil)
	req.Header.Set("Origin", "https://status.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestStartStop(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
	}{
		{"stop while serving", 50 * time.Millisecond},
		{"stop before start", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := database.Open(filepath.Join(t.TempDir(), "traceroute.db"))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer db.Close()

			log := zap.NewNop()
			srv := New(db, report.NewGenerator(db, log), nil, 0, log)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			done := make(chan error, 1)
			if tt.delay == 0 {
				if err := srv.Stop(ctx); err != nil {
					t.Fatalf("Stop: %v", err)
				}
				go func() { done <- srv.Start() }()
			} else {
				go func() { done <- srv.Start() }()
				time.Sleep(tt.delay)
				if err := srv.Stop(ctx); err != nil {
					t.Fatalf("Stop: %v", err)
				}
			}

			select {
			case err := <-done:
				if err != nil {
					t.Errorf("Start returned %v after Stop", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Start did not return after Stop")
			}
		})
	}
}
