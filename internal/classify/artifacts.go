package classify

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Artifact file names inside the artifacts directory.
const (
	ModelConfigFile = "model_architecture_config.json"
	ThresholdsFile  = "confidence_thresholds.json"
	LabelMapsFile   = "label_maps.json"
	TopicsFile      = "topics.csv"
)

const (
	defaultMaxLength = 128
	defaultMaxLevels = 3
	defaultThreshold = 0.05
)

// ModelConfig mirrors model_architecture_config.json.
type ModelConfig struct {
	IgnoreIndex        *int   `json:"ignore_index"`
	NumClassesPerLevel []int  `json:"num_classes_per_level"`
	ModelName          string `json:"model_name"`
	MaxLength          int    `json:"tokenizer_max_length"`
	MaxLevels          int    `json:"max_levels_defined_in_script"`
}

type levelMap struct {
	IndexToID map[string]any `json:"index_to_id"`
}

// Artifacts is everything needed to turn model outputs into topic labels.
type Artifacts struct {
	Model      ModelConfig
	Thresholds map[int]float64
	// LabelMaps[level][class index] is the raw topic id (number or string).
	LabelMaps map[int]map[int]any
	Topics    map[int]string
}

// LoadArtifacts reads the artifact files from dir.
func LoadArtifacts(dir string) (*Artifacts, error) {
	a := &Artifacts{}

	if err := readJSON(filepath.Join(dir, ModelConfigFile), &a.Model); err != nil {
		return nil, err
	}
	if a.Model.MaxLength <= 0 {
		a.Model.MaxLength = defaultMaxLength
	}
	if a.Model.MaxLevels <= 0 {
		a.Model.MaxLevels = defaultMaxLevels
	}

	var rawThr map[string]float64
	if err := readJSON(filepath.Join(dir, ThresholdsFile), &rawThr); err != nil {
		return nil, err
	}
	a.Thresholds = make(map[int]float64, len(rawThr))
	for k, v := range rawThr {
		lvl, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%s: level %q: %w", ThresholdsFile, k, err)
		}
		a.Thresholds[lvl] = v
	}

	var rawMaps map[string]levelMap
	if err := readJSON(filepath.Join(dir, LabelMapsFile), &rawMaps); err != nil {
		return nil, err
	}
	a.LabelMaps = make(map[int]map[int]any, len(rawMaps))
	for k, lm := range rawMaps {
		lvl, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%s: level %q: %w", LabelMapsFile, k, err)
		}
		m := make(map[int]any, len(lm.IndexToID))
		for ik, v := range lm.IndexToID {
			idx, err := strconv.Atoi(ik)
			if err != nil {
				return nil, fmt.Errorf("%s: index %q: %w", LabelMapsFile, ik, err)
			}
			m[idx] = v
		}
		a.LabelMaps[lvl] = m
	}

	topics, err := readTopics(filepath.Join(dir, TopicsFile))
	if err != nil {
		return nil, err
	}
	a.Topics = topics
	return a, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readTopics loads topics.csv; it needs "id" and "name" columns.
func readTopics(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", TopicsFile, err)
	}
	idCol, nameCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case "id":
			idCol = i
		case "name":
			nameCol = i
		}
	}
	if idCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("%s: need id and name columns, have %v", TopicsFile, header)
	}

	out := make(map[int]string)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", TopicsFile, err)
		}
		if idCol >= len(rec) || nameCol >= len(rec) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			continue
		}
		out[id] = rec[nameCol]
	}
	return out, nil
}
