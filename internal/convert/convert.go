package convert

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/thywilljoshua/taskbook/internal/sheet"
)

// ErrNoToC is returned by Run when RequireToC is set and no table of contents was found.
var ErrNoToC = errors.New("table of contents not found")

// Run converts the source book into the tasks, table_of_contents and author
// sheets of cfg.Output and fills answers from the answers section.
func Run(ctx context.Context, cfg Config) (Result, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	profile := cfg.Profile.withDefaults()
	if cfg.Output == "" {
		cfg.Output = "tasks.xlsx"
	}

	if err := ValidateSource(cfg.Source); err != nil {
		return Result{}, err
	}
	paras, err := ReadParagraphs(cfg.Source)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", cfg.Source, err)
	}
	log.Info("source loaded", zap.String("source", cfg.Source), zap.Int("paragraphs", len(paras)))
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sections := ParseToC(paras, profile.ToCMarker)
	if len(sections) == 0 {
		if cfg.RequireToC {
			return Result{}, ErrNoToC
		}
		log.Warn("table of contents not found, problems get paragraph 0", zap.String("marker", profile.ToCMarker))
	}

	problems := ParseProblems(paras, sections, profile, log)
	log.Info("problems parsed", zap.Int("problems", len(problems)), zap.Int("sections", len(sections)))

	answered := 0
	answers, err := ParseAnswers(paras, profile)
	switch {
	case errors.Is(err, ErrNoAnswers):
		log.Warn("answers section not found", zap.String("marker", profile.AnswersMarker))
		ApplyAnswers(problems, nil, profile.MissingAnswer)
	case err != nil:
		return Result{}, err
	default:
		answered = ApplyAnswers(problems, answers, profile.MissingAnswer)
		log.Info("answers applied", zap.Int("answers", len(answers)), zap.Int("matched", answered))
	}

	wb, err := sheet.Open(cfg.Output)
	if err != nil {
		return Result{}, err
	}
	defer wb.Close()

	if err := wb.WriteTable(sheet.ToCSheet, SectionsTable(sections)); err != nil {
		return Result{}, err
	}
	if err := wb.WriteTable(sheet.TasksSheet, ProblemsTable(problems)); err != nil {
		return Result{}, err
	}
	if !cfg.SkipAuthor {
		if err := wb.WriteTable(sheet.AuthorSheet, AuthorTable(profile.Author)); err != nil {
			return Result{}, err
		}
	}
	if err := wb.Save(); err != nil {
		return Result{}, err
	}
	log.Info("workbook written", zap.String("output", cfg.Output))

	return Result{
		Sections: BuildChapterTree(sections),
		Problems: len(problems),
		Answered: answered,
		Missing:  len(problems) - answered,
		Output:   cfg.Output,
	}, nil
}

// UpdateAnswers re-reads the answers section and rewrites the answer column of
// an existing tasks sheet, leaving every other column untouched.
func UpdateAnswers(ctx context.Context, cfg Config) (Result, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	profile := cfg.Profile.withDefaults()
	if err := ValidateSource(cfg.Source); err != nil {
		return Result{}, err
	}
	paras, err := ReadParagraphs(cfg.Source)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", cfg.Source, err)
	}
	answers, err := ParseAnswers(paras, profile)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	wb, err := sheet.Open(cfg.Output)
	if err != nil {
		return Result{}, err
	}
	defer wb.Close()
	t, err := wb.ReadTable(sheet.TasksSheet)
	if err != nil {
		return Result{}, err
	}
	idCol, err := t.RequireColumn(sheet.ColID)
	if err != nil {
		return Result{}, err
	}
	ansCol := t.Column(sheet.ColAnswer)
	if ansCol < 0 {
		ansCol = t.EnsureColumn(sheet.ColAnswer)
		if err := wb.SetHeader(sheet.TasksSheet, ansCol, sheet.ColAnswer); err != nil {
			return Result{}, err
		}
	}
	// Cells are written in place so typed columns keep their types.
	found := 0
	for i := 0; i < t.Len(); i++ {
		value := profile.MissingAnswer
		if a, ok := answers[t.Get(i, idCol)]; ok {
			value = a
			found++
		}
		if err := wb.SetCell(sheet.TasksSheet, i, ansCol, value); err != nil {
			return Result{}, err
		}
	}
	if err := wb.Save(); err != nil {
		return Result{}, err
	}
	log.Info("answers updated", zap.Int("rows", t.Len()), zap.Int("matched", found))
	return Result{Problems: t.Len(), Answered: found, Missing: t.Len() - found, Output: cfg.Output}, nil
}

// ParseToCFile extracts only the table of contents into the workbook.
func ParseToCFile(cfg Config) (Result, error) {
	profile := cfg.Profile.withDefaults()
	if err := ValidateSource(cfg.Source); err != nil {
		return Result{}, err
	}
	paras, err := ReadParagraphs(cfg.Source)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", cfg.Source, err)
	}
	sections := ParseToC(paras, profile.ToCMarker)
	if len(sections) == 0 {
		return Result{}, ErrNoToC
	}
	wb, err := sheet.Open(cfg.Output)
	if err != nil {
		return Result{}, err
	}
	defer wb.Close()
	if err := wb.WriteTable(sheet.ToCSheet, SectionsTable(sections)); err != nil {
		return Result{}, err
	}
	if err := wb.Save(); err != nil {
		return Result{}, err
	}
	return Result{Sections: BuildChapterTree(sections), Output: cfg.Output}, nil
}

// SectionsTable renders the table_of_contents sheet.
func SectionsTable(sections []Section) *sheet.Table {
	t := sheet.NewTable("id", "name", "parent")
	for _, s := range sections {
		t.Append(s.ID, s.Name, s.Parent)
	}
	return t
}

// ProblemsTable renders the tasks sheet.
func ProblemsTable(problems []Problem) *sheet.Table {
	t := sheet.NewTable(sheet.ColID, sheet.ColTask, sheet.ColAnswer, sheet.ColParagraph,
		sheet.ColClasses, sheet.ColTopicID, sheet.ColLevel)
	for _, p := range problems {
		t.Append(p.ID, p.Text, p.Answer, p.Paragraph, p.Classes, p.TopicID, p.Level)
	}
	return t
}

// AuthorTable renders the author sheet.
func AuthorTable(a Author) *sheet.Table {
	t := sheet.NewTable("name", "author", "description", "topic_id", "classes")
	t.Append(a.Name, a.Author, a.Description, a.TopicID, a.Classes)
	return t
}
