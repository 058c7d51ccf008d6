package quiz

import "strings"

type QuizType string

const (
	QuizTypeCourse QuizType = "COURSE_QUIZ"
	QuizTypeLevel  QuizType = "LEVEL_QUIZ"
	QuizTypeExam   QuizType = "EXAM_QUIZ"
)

var AllQuizTypes = []QuizType{
	QuizTypeCourse,
	QuizTypeLevel,
	QuizTypeExam,
}

func (t QuizType) IsValid() bool {
	for _, v := range AllQuizTypes {
		if t == v {
			return true
		}
	}
	return false
}

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
)

var AllQuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeTrueFalse,
}

func (t QuestionType) IsValid() bool {
	for _, v := range AllQuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsTrueLiteral reports whether an option text spells the canonical "true".
func IsTrueLiteral(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "true")
}

func IsFalseLiteral(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "false")
}
