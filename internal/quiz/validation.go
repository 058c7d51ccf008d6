package quiz

import (
	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
)

func validateQuizDefinition(dto CreateQuizDTO) error {
	if err := apperror.ValidateStruct(dto); err != nil {
		return err
	}

	fields := map[string]string{}
	if !dto.QuizType.IsValid() {
		fields["quiz_type"] = "unsupported quiz type"
	}
	if (dto.CourseID == nil) == (dto.LevelID == nil) {
		fields["scope"] = "exactly one of course_id or level_id must be set"
	}
	if len(fields) > 0 {
		return apperror.Validation("invalid_input", "invalid quiz definition", fields)
	}
	return nil
}

// validateQuestionDefinition enforces single-answer questions: exactly one
// correct option, and for true/false exactly the two literal options.
func validateQuestionDefinition(dto CreateQuestionDTO) error {
	if err := apperror.ValidateStruct(dto); err != nil {
		return err
	}

	fields := map[string]string{}
	correct := 0
	for _, o := range dto.Options {
		if o.IsCorrect {
			correct++
		}
	}

	switch dto.QuestionType {
	case QuestionTypeMultipleChoice:
		if correct != 1 {
			fields["options"] = "multiple choice questions need exactly one correct option"
		}
	case QuestionTypeTrueFalse:
		if len(dto.Options) != 2 {
			fields["options"] = "true/false questions need exactly two options"
			break
		}
		trues, falses := 0, 0
		for _, o := range dto.Options {
			switch {
			case IsTrueLiteral(o.Text):
				trues++
			case IsFalseLiteral(o.Text):
				falses++
			}
		}
		if trues != 1 || falses != 1 {
			fields["options"] = `true/false options must be "True" and "False"`
		} else if correct != 1 {
			fields["options"] = "true/false questions need exactly one correct option"
		}
	default:
		fields["question_type"] = "unsupported question type"
	}

	if len(fields) > 0 {
		return apperror.Validation("invalid_input", "invalid question definition", fields)
	}
	return nil
}
