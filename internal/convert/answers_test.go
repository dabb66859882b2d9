package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswers(t *testing.T) {
	got, err := ParseAnswers(paragraphs(sampleBook...), DefaultProfile())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"1.":  "Пять",
		"2.а": "7",
		"2.б": "8",
		"2.в": "девять",
		"4.":  "120 км",
	}, got)
}

func TestParseAnswersCases(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  map[string]string
	}{
		{
			name:  "runs to the end without a table of contents",
			lines: []string{"Ответы и советы", "5. Да.", "6. Нет"},
			want:  map[string]string{"5.": "Да", "6.": "Нет"},
		},
		{
			name:  "numbered sub-parts",
			lines: []string{"Ответы и советы", "7. 1) 10; 2) двадцать."},
			want:  map[string]string{"7.1": "10", "7.2": "двадцать"},
		},
		{
			name:  "empty answers are skipped",
			lines: []string{"Ответы и советы", "8. ; а) 3"},
			want:  map[string]string{"8.а": "3"},
		},
		{
			name:  "later answer wins",
			lines: []string{"Ответы и советы", "9. Старый.", "9. Новый."},
			want:  map[string]string{"9.": "Новый"},
		},
		{
			name:  "table of contents before the answers is ignored",
			lines: []string{"Оглавление", "1. Глава 3", "Ответы и советы", "1. Ответ."},
			want:  map[string]string{"1.": "Ответ"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswers(paragraphs(tt.lines...), DefaultProfile())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAnswersMissingSection(t *testing.T) {
	_, err := ParseAnswers(paragraphs("1.\tЗадача"), DefaultProfile())
	require.ErrorIs(t, err, ErrNoAnswers)
}

func TestApplyAnswers(t *testing.T) {
	problems := []Problem{{ID: "1."}, {ID: "2.а"}, {ID: "3."}}
	found := ApplyAnswers(problems, map[string]string{"1.": "5", "2.а": "7"}, "Отсутствует")

	assert.Equal(t, 2, found)
	assert.Equal(t, "5", problems[0].Answer)
	assert.Equal(t, "7", problems[1].Answer)
	assert.Equal(t, "Отсутствует", problems[2].Answer)
}
