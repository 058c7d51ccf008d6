package quiz

func ToResponse(q *Quiz) *QuizResponse {
	return &QuizResponse{
		ID:                 q.ID,
		Title:              q.Title,
		Description:        q.Description,
		QuizType:           q.QuizType,
		CourseID:           q.CourseID,
		LevelID:            q.LevelID,
		SectionID:          q.SectionID,
		ContentID:          q.ContentID,
		MaxAttempts:        q.MaxAttempts,
		PassingScore:       q.PassingScore,
		IsRequired:         q.IsRequired,
		TimeLimitInMinutes: q.TimeLimitInMinutes,
		IsActive:           q.IsActive,
		InstructorID:       q.InstructorID,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

func ToSummary(q *Quiz) Summary {
	return Summary{
		ID:       q.ID,
		Title:    q.Title,
		QuizType: q.QuizType,
		CourseID: q.CourseID,
		LevelID:  q.LevelID,
		IsActive: q.IsActive,
	}
}

func ToQuestionResponse(q Question, options []QuestionOption, withAnswers bool) QuestionResponse {
	resp := QuestionResponse{
		ID:           q.ID,
		Text:         q.Text,
		QuestionType: q.QuestionType,
		Points:       q.Points,
		Explanation:  q.Explanation,
		Options:      make([]OptionResponse, 0, len(options)),
	}
	if !withAnswers {
		resp.Explanation = nil
	}
	for _, opt := range options {
		o := OptionResponse{
			ID:         opt.ID,
			Text:       opt.Text,
			OrderIndex: opt.OrderIndex,
		}
		if withAnswers {
			correct := opt.IsCorrect
			o.IsCorrect = &correct
		}
		resp.Options = append(resp.Options, o)
	}
	return resp
}

// ToDetailResponse renders questions in quiz order. Links whose question no
// longer resolves are skipped.
func ToDetailResponse(c *Content, withAnswers bool) *QuizDetailResponse {
	detail := &QuizDetailResponse{
		QuizResponse: *ToResponse(c.Quiz),
		TotalPoints:  c.TotalPoints(),
		Questions:    make([]QuizQuestionResponse, 0, len(c.Links)),
	}
	for _, l := range c.Links {
		q, ok := c.Questions[l.QuestionID]
		if !ok {
			continue
		}
		detail.Questions = append(detail.Questions, QuizQuestionResponse{
			QuestionResponse: ToQuestionResponse(q, c.Options[q.ID], withAnswers),
			OrderIndex:       l.OrderIndex,
			CustomPoints:     l.CustomPoints,
			EffectivePoints:  l.EffectivePoints(q),
		})
	}
	return detail
}
