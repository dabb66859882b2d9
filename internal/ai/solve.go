package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thywilljoshua/taskbook/internal/sheet"
)

const previewRunes = 50

// SolveOptions tunes SolveSheet.
type SolveOptions struct {
	// Delay is the pause between provider calls (rate limits).
	Delay  time.Duration
	Limit  int
	Logger *zap.Logger
}

// SolveReport counts what SolveSheet did.
type SolveReport struct {
	Pending int `json:"pending"`
	Solved  int `json:"solved"`
	Failed  int `json:"failed"`
}

// SolveSheet fills the AI_solution column for every task that has text and no
// solution yet. The workbook is saved after each solved task so an interrupted
// run resumes where it stopped; failed tasks stay empty and are retried next run.
func SolveSheet(ctx context.Context, wb *sheet.Workbook, s Solver, opts SolveOptions) (SolveReport, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var rep SolveReport

	t, err := wb.ReadTable(sheet.TasksSheet)
	if err != nil {
		return rep, err
	}
	taskCol, err := t.RequireColumn(sheet.ColTask)
	if err != nil {
		return rep, err
	}
	idCol := t.Column(sheet.ColID)
	solCol := t.Column(sheet.ColSolution)
	if solCol < 0 {
		solCol = t.EnsureColumn(sheet.ColSolution)
		if err := wb.SetHeader(sheet.TasksSheet, solCol, sheet.ColSolution); err != nil {
			return rep, err
		}
	}

	var pending []int
	for i := 0; i < t.Len(); i++ {
		if t.Get(i, taskCol) != "" && t.Get(i, solCol) == "" {
			pending = append(pending, i)
		}
	}
	if opts.Limit > 0 && len(pending) > opts.Limit {
		pending = pending[:opts.Limit]
	}
	rep.Pending = len(pending)
	if len(pending) == 0 {
		log.Info("no tasks to solve")
		return rep, nil
	}
	log.Info("solving tasks", zap.Int("pending", len(pending)), zap.String("solver", s.Name()))

	for n, row := range pending {
		if n > 0 {
			if err := sleep(ctx, opts.Delay); err != nil {
				return rep, err
			}
		}
		number := fmt.Sprint(row + 1)
		if idCol >= 0 && t.Get(row, idCol) != "" {
			number = t.Get(row, idCol)
		}
		text := t.Get(row, taskCol)
		log.Info("solving", zap.String("id", number), zap.String("task", preview(text)))

		solution, err := s.Solve(ctx, number, text)
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			rep.Failed++
			log.Warn("solve failed", zap.String("id", number), zap.Error(err))
			continue
		}
		if solution == "" {
			continue
		}
		if err := wb.SetCell(sheet.TasksSheet, row, solCol, solution); err != nil {
			return rep, err
		}
		if err := wb.Save(); err != nil {
			return rep, err
		}
		rep.Solved++
	}
	log.Info("solutions written", zap.String("output", wb.Path()), zap.Int("solved", rep.Solved), zap.Int("failed", rep.Failed))
	return rep, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "..."
}
