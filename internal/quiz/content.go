package quiz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Content is a quiz resolved into flat id-indexed collections: the ordered
// join rows plus the questions and options they point at.
type Content struct {
	Quiz      *Quiz
	Links     []QuizQuestion
	Questions map[uuid.UUID]Question
	Options   map[uuid.UUID][]QuestionOption
}

func LoadContent(ctx context.Context, repo Repository, q *Quiz) (*Content, error) {
	links, err := repo.ListQuizQuestions(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.QuestionID)
	}

	questions, err := repo.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	options, err := repo.ListOptionsByQuestionIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}

	c := &Content{
		Quiz:      q,
		Links:     links,
		Questions: make(map[uuid.UUID]Question, len(questions)),
		Options:   make(map[uuid.UUID][]QuestionOption, len(questions)),
	}
	for _, question := range questions {
		c.Questions[question.ID] = question
	}
	for _, opt := range options {
		c.Options[opt.QuestionID] = append(c.Options[opt.QuestionID], opt)
	}
	return c, nil
}

// TotalPoints sums effective points over links whose question still resolves.
func (c *Content) TotalPoints() int {
	total := 0
	for _, l := range c.Links {
		if q, ok := c.Questions[l.QuestionID]; ok {
			total += l.EffectivePoints(q)
		}
	}
	return total
}

func (c *Content) Link(questionID uuid.UUID) (QuizQuestion, bool) {
	for _, l := range c.Links {
		if l.QuestionID == questionID {
			return l, true
		}
	}
	return QuizQuestion{}, false
}
