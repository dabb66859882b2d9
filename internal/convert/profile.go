package convert

const (
	defaultAnswersMarker = "Ответы и советы"
	defaultToCMarker     = "Оглавление"
	defaultMissingAnswer = "Отсутствует"
	defaultClasses       = "5;6"
	defaultTrimChars     = 5
)

// DefaultProfile returns the rules for "Текстовые задачи по математике. 5–6 классы".
func DefaultProfile() Profile {
	return Profile{
		AnswersMarker:      defaultAnswersMarker,
		ToCMarker:          defaultToCMarker,
		MissingAnswer:      defaultMissingAnswer,
		Classes:            defaultClasses,
		TopicID:            1,
		TrimChars:          defaultTrimChars,
		MergeContinuations: true,
		SkipPhrases: []string{
			"Натуральные числа",
			"Сложение и вычитание натуральных чисел",
			"Умножение и деление натуральных чисел",
			"Задачи «на части»",
			"Задачи на нахождение двух чисел по их сумме и разности",
			"Задачи на движение по реке",
			"Задачи на движение",
			"Разные задачи",
			"Дроби",
			"Вводные задачи",
			"Сложение и вычитание обыкновенных дробей",
			"Умножение и деление обыкновенных дробей",
			"Задачи «на бассейны» и другие",
			"Пропорции",
			"Задачи на прямую и обратную пропорциональность",
			"Проценты",
			"Нахождение процентов числа",
			"Нахождение процентного отношения",
			"Сложные задачи на проценты",
			"Уравнения",
			"Решение задач с помощью уравнений",
			"Более сложные задачи, решаемые уравнением",
			"Задачи на повторение",
			"Нахождение части числа и числа по его части",
			"Нахождение числа по его процентам",
		},
		Author: Author{
			Name:    "Текстовые задачи по математике. 5–6 классы / А. В. Шевкин. — 3-е изд., перераб. — М. : Илекса, 2024. — 160 с. : ил.",
			Author:  " А. В. Шевкин.",
			TopicID: 1,
			Classes: defaultClasses,
			Description: "Сборник включает текстовые задачи по разделам школьной математики: натуральные числа, дроби, пропорции, проценты, уравнения. " +
				"Ко многим задачам даны ответы или советы с чего начать решения. " +
				"Решения некоторых задач приведены в качестве образцов в основном тексте книги или в разделе «Ответы, советы, решения». " +
				"Материалы сборника можно использовать как дополнение к любому действующему учебнику. " +
				"При подготовке этого издания добавлены новые задачи и решения некоторых задач. " +
				"Пособие предназначено для учащихся 5–6 классов общеобразовательных школ, учителей, студентов педагогических вузов. ",
		},
	}
}

// withDefaults fills zero fields from DefaultProfile.
func (p Profile) withDefaults() Profile {
	d := DefaultProfile()
	if p.AnswersMarker == "" {
		p.AnswersMarker = d.AnswersMarker
	}
	if p.ToCMarker == "" {
		p.ToCMarker = d.ToCMarker
	}
	if p.MissingAnswer == "" {
		p.MissingAnswer = d.MissingAnswer
	}
	if p.Classes == "" {
		p.Classes = d.Classes
	}
	if p.TopicID == 0 {
		p.TopicID = d.TopicID
	}
	if p.TrimChars <= 0 {
		p.TrimChars = d.TrimChars
	}
	return p
}
