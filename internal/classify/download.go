package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

const driveURL = "https://drive.google.com/uc?id="

// ArtifactEnv maps each artifact file to the environment variable that holds
// its Google Drive file id.
var ArtifactEnv = map[string]string{
	ThresholdsFile:                "CONFIDENCE_THRESHOLDS_JSON_ID",
	"hierarchical_model_state.pt": "HIERARCHICAL_MODEL_STATE_PT_ID",
	"tokenizer_config.json":       "TOKENIZER_CONFIG_JSON_ID",
	"special_tokens_map.json":     "SPECIAL_TOKENS_MAP_JSON_ID",
	"vocab.txt":                   "VOCAB_TXT_ID",
	"tokenizer.json":              "TOKENIZER_JSON_ID",
	LabelMapsFile:                 "LABEL_MAPS_JSON_ID",
	ModelConfigFile:               "MODEL_ARCHITECTURE_CONFIG_JSON_ID",
	TopicsFile:                    "TOPICS_CSV_ID",
}

// ErrHTMLResponse is returned when Drive answers with a web page instead of
// the file (quota or virus-scan interstitial).
var ErrHTMLResponse = errors.New("got an html page instead of the file")

// DriveURL is the direct-download URL for a Drive file id.
func DriveURL(id string) string { return driveURL + id }

// DownloadOptions tunes Download.
type DownloadOptions struct {
	Client   *http.Client
	Attempts uint
	Delay    time.Duration
	Logger   *zap.Logger
}

// DownloadReport lists what Download did per file.
type DownloadReport struct {
	Downloaded []string `json:"downloaded"`
	Skipped    []string `json:"skipped"`
}

// Download fetches every file in files (name to URL) that is not already
// present in dir. Entries with an empty URL are skipped with a warning.
func Download(ctx context.Context, dir string, files map[string]string, opts DownloadOptions) (DownloadReport, error) {
	var rep DownloadReport
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Minute}
	}
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if opts.Delay == 0 {
		opts.Delay = 2 * time.Second
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rep, fmt.Errorf("create artifacts dir: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			log.Info("artifact exists, skipping", zap.String("file", name))
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		url := files[name]
		if url == "" {
			log.Warn("no url for artifact", zap.String("file", name), zap.String("env", ArtifactEnv[name]))
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		log.Info("downloading artifact", zap.String("file", name))
		err := retry.Do(
			func() error { return fetch(ctx, opts.Client, url, dst) },
			retry.Context(ctx),
			retry.Attempts(opts.Attempts),
			retry.Delay(opts.Delay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool { return !errors.Is(err, ErrHTMLResponse) }),
		)
		if err != nil {
			return rep, fmt.Errorf("download %s: %w", name, err)
		}
		rep.Downloaded = append(rep.Downloaded, name)
	}
	return rep, nil
}

func fetch(ctx context.Context, client *http.Client, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Unrecoverable(err)
		}
		return err
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return ErrHTMLResponse
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return retry.Unrecoverable(err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
