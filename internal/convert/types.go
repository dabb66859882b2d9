package convert

import "go.uber.org/zap"

// Paragraph is one line of source text in document order.
type Paragraph struct {
	Index int
	Text  string
}

// Section is a table-of-contents entry. Parent is 0 for top-level chapters.
type Section struct {
	ID       int       `json:"id"`
	Number   string    `json:"number"`
	Title    string    `json:"title"`
	Name     string    `json:"name"`
	Parent   int       `json:"parent"`
	Depth    int       `json:"depth"`
	Children []Section `json:"children,omitempty"`
}

// Problem is one row of the tasks sheet.
type Problem struct {
	ID        string `json:"id_tasks_book"`
	Text      string `json:"task"`
	Answer    string `json:"answer"`
	Paragraph int    `json:"paragraph"`
	Classes   string `json:"classes"`
	TopicID   int    `json:"topic_id"`
	Level     int    `json:"level"`
}

// Author is the single row of the author sheet.
type Author struct {
	Name        string `json:"name" yaml:"name"`
	Author      string `json:"author" yaml:"author"`
	Description string `json:"description" yaml:"description"`
	TopicID     int    `json:"topic_id" yaml:"topic_id"`
	Classes     string `json:"classes" yaml:"classes"`
}

// Profile holds the per-book rules the parser needs.
type Profile struct {
	AnswersMarker      string   `yaml:"answers_marker"`
	ToCMarker          string   `yaml:"toc_marker"`
	MissingAnswer      string   `yaml:"missing_answer"`
	SkipPhrases        []string `yaml:"skip_phrases"`
	Classes            string   `yaml:"classes"`
	TopicID            int      `yaml:"topic_id"`
	TrimChars          int      `yaml:"trim_chars"`
	MergeContinuations bool     `yaml:"merge_continuations"`
	Author             Author   `yaml:"author"`
}

// Config drives a single Run.
type Config struct {
	Source     string
	Output     string
	Profile    Profile
	RequireToC bool
	SkipAuthor bool
	Logger     *zap.Logger
}

// Result summarises a Run for the CLI.
type Result struct {
	RunID    string    `json:"run_id,omitempty"`
	Sections []Section `json:"sections"`
	Problems int       `json:"problems"`
	Answered int       `json:"answered"`
	Missing  int       `json:"missing_answers"`
	Output   string    `json:"output"`
}
