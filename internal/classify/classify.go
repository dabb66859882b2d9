// Package classify assigns hierarchical math topics to extracted problems
// using a pre-trained multi-level classifier served over HTTP.
package classify

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/thywilljoshua/taskbook/internal/sheet"
)

const (
	DefaultBatchSize = 32
	noLabel          = "NO_LABEL"
	noLabelName      = "—"
)

// Label is one level of a prediction. ID is nil when the level has no topic.
type Label struct {
	ID   *int   `json:"id"`
	Name string `json:"name"`
}

func emptyLabel() Label { return Label{Name: noLabelName} }

// Classifier combines the artifacts with a Predictor.
type Classifier struct {
	art  *Artifacts
	pred Predictor
}

func New(art *Artifacts, pred Predictor) *Classifier {
	return &Classifier{art: art, pred: pred}
}

// Levels is the number of topic levels written per problem.
func (c *Classifier) Levels() int { return c.art.Model.MaxLevels }

// Classify predicts one Label per level for each text.
func (c *Classifier) Classify(ctx context.Context, texts []string) ([][]Label, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	processed := make([]string, len(texts))
	for i, t := range texts {
		processed[i] = PreprocessLaTeX(t)
	}
	logits, err := c.pred.Predict(ctx, processed, c.art.Model.MaxLength)
	if err != nil {
		return nil, err
	}

	levels := c.Levels()
	out := make([][]Label, len(texts))
	for i := range out {
		out[i] = make([]Label, levels)
		for l := range out[i] {
			out[i][l] = emptyLabel()
		}
	}
	for lvl, perText := range logits {
		if lvl >= levels || perText == nil {
			continue
		}
		if len(perText) != len(texts) {
			return nil, fmt.Errorf("level %d: got %d predictions for %d texts", lvl, len(perText), len(texts))
		}
		for i, row := range perText {
			if len(row) == 0 {
				continue
			}
			idx, prob := argmax(softmax(row))
			out[i][lvl] = c.decode(lvl, idx, prob)
		}
	}
	return out, nil
}

func (c *Classifier) decode(level, idx int, prob float64) Label {
	threshold, ok := c.art.Thresholds[level]
	if !ok {
		threshold = defaultThreshold
	}
	if prob < threshold {
		return emptyLabel()
	}
	if ig := c.art.Model.IgnoreIndex; ig != nil && idx == *ig {
		return emptyLabel()
	}
	raw, ok := c.art.LabelMaps[level][idx]
	if !ok {
		return emptyLabel()
	}
	if s, isStr := raw.(string); isStr && strings.Contains(s, noLabel) {
		return emptyLabel()
	}
	id, ok := topicID(raw)
	if !ok {
		return Label{Name: fmt.Sprintf("ID_%v (некорректный формат)", raw)}
	}
	name, ok := c.art.Topics[id]
	if !ok {
		name = fmt.Sprintf("ID_%d (имя не найдено)", id)
	}
	return Label{ID: &id, Name: name}
}

func topicID(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

func softmax(xs []float64) []float64 {
	hi := math.Inf(-1)
	for _, x := range xs {
		if x > hi {
			hi = x
		}
	}
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		out[i] = math.Exp(x - hi)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func argmax(xs []float64) (int, float64) {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best, xs[best]
}

// IDColumn and NameColumn name the output columns for a 1-based level.
func IDColumn(level int) string   { return fmt.Sprintf("topic_id_lvl_%d", level) }
func NameColumn(level int) string { return fmt.Sprintf("topic_name_%d", level) }

// SheetOptions tunes ClassifySheet.
type SheetOptions struct {
	BatchSize int
	Logger    *zap.Logger
}

// SheetReport summarises a ClassifySheet run.
type SheetReport struct {
	Tasks      int `json:"tasks"`
	Classified int `json:"classified"`
	Levels     int `json:"levels"`
}

// ClassifySheet classifies every row of the tasks sheet and writes the topic
// columns in place, then saves the workbook.
func ClassifySheet(ctx context.Context, wb *sheet.Workbook, c *Classifier, opts SheetOptions) (SheetReport, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	rep := SheetReport{Levels: c.Levels()}

	t, err := wb.ReadTable(sheet.TasksSheet)
	if err != nil {
		return rep, err
	}
	taskCol, err := t.RequireColumn(sheet.ColTask)
	if err != nil {
		return rep, err
	}
	rep.Tasks = t.Len()

	idCols := make([]int, rep.Levels)
	nameCols := make([]int, rep.Levels)
	for l := 0; l < rep.Levels; l++ {
		for _, pair := range []struct {
			name string
			dst  *int
		}{{IDColumn(l + 1), &idCols[l]}, {NameColumn(l + 1), &nameCols[l]}} {
			col := t.Column(pair.name)
			if col < 0 {
				col = t.EnsureColumn(pair.name)
				if err := wb.SetHeader(sheet.TasksSheet, col, pair.name); err != nil {
					return rep, err
				}
			}
			*pair.dst = col
		}
	}

	log.Info("classifying tasks", zap.Int("tasks", rep.Tasks), zap.Int("levels", rep.Levels))
	for start := 0; start < t.Len(); start += batch {
		end := min(start+batch, t.Len())
		texts := make([]string, 0, end-start)
		for row := start; row < end; row++ {
			texts = append(texts, t.Get(row, taskCol))
		}
		preds, err := c.Classify(ctx, texts)
		if err != nil {
			return rep, fmt.Errorf("classify rows %d-%d: %w", start+1, end, err)
		}
		for i, labels := range preds {
			row := start + i
			for l, lb := range labels {
				var id any
				if lb.ID != nil {
					id = *lb.ID
				}
				if err := wb.SetCell(sheet.TasksSheet, row, idCols[l], id); err != nil {
					return rep, err
				}
				if err := wb.SetCell(sheet.TasksSheet, row, nameCols[l], lb.Name); err != nil {
					return rep, err
				}
			}
			rep.Classified++
		}
		log.Debug("batch classified", zap.Int("done", end), zap.Int("total", t.Len()))
	}

	if err := wb.Save(); err != nil {
		return rep, err
	}
	log.Info("topics written", zap.String("output", wb.Path()), zap.Int("classified", rep.Classified))
	return rep, nil
}
