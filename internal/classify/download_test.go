package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	var flaky atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "flaky":
			if flaky.Add(1) == 1 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("flaky-body"))
		case "topics":
			_, _ = w.Write([]byte("id,name\n1,x\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "artifacts")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.json"), []byte("{}"), 0o644))

	rep, err := Download(context.Background(), dir, map[string]string{
		"existing.json": srv.URL + "/uc?id=never",
		"vocab.txt":     srv.URL + "/uc?id=flaky",
		TopicsFile:      srv.URL + "/uc?id=topics",
		"unset.json":    "",
	}, DownloadOptions{Attempts: 3, Delay: time.Millisecond})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"vocab.txt", TopicsFile}, rep.Downloaded)
	assert.ElementsMatch(t, []string{"existing.json", "unset.json"}, rep.Skipped)

	body, err := os.ReadFile(filepath.Join(dir, "vocab.txt"))
	require.NoError(t, err)
	assert.Equal(t, "flaky-body", string(body))
	assert.Equal(t, int32(2), flaky.Load())
	_, err = os.Stat(filepath.Join(dir, "unset.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDownloadClientErrorIsFinal(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Download(context.Background(), t.TempDir(), map[string]string{"a.json": srv.URL},
		DownloadOptions{Attempts: 3, Delay: time.Millisecond})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDownloadHTMLInterstitial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>virus scan warning</html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := Download(context.Background(), dir, map[string]string{"model.pt": srv.URL},
		DownloadOptions{Attempts: 2, Delay: time.Millisecond})
	require.ErrorIs(t, err, ErrHTMLResponse)
	_, err = os.Stat(filepath.Join(dir, "model.pt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDriveURL(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/uc?id=abc", DriveURL("abc"))
}

func TestHTTPPredictor(t *testing.T) {
	var got predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"logits": [[[1, 2]], [[3, 4, 5]]]}`))
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL+"/", time.Second)
	logits, err := p.Predict(context.Background(), []string{"текст"}, 64)
	require.NoError(t, err)
	assert.Equal(t, [][][]float64{{{1, 2}}, {{3, 4, 5}}}, logits)
	assert.Equal(t, predictRequest{Texts: []string{"текст"}, MaxLength: 64}, got)
}

func TestHTTPPredictorErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "texts must not be empty"}`))
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL, time.Second)
	_, err := p.Predict(context.Background(), nil, 128)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "texts must not be empty")
	assert.Equal(t, int32(1), hits.Load())
}
