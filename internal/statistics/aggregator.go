// Package statistics derives pass rates, score distributions and per
// question difficulty from completed attempts. Aggregation is pure; the
// service adds loading, ownership checks and caching around it.
package statistics

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

const (
	DifficultyEasy     = "Easy"
	DifficultyMedium   = "Medium"
	DifficultyHard     = "Hard"
	DifficultyVeryHard = "Very Hard"
)

type Summary struct {
	TotalAttempts        int     `json:"total_attempts"`
	PassedAttempts       int     `json:"passed_attempts"`
	UniqueUsers          int     `json:"unique_users"`
	PassRate             float64 `json:"pass_rate"`
	AverageScore         float64 `json:"average_score"`
	HighestScore         float64 `json:"highest_score"`
	LowestScore          float64 `json:"lowest_score"`
	AverageTimeInMinutes float64 `json:"average_time_in_minutes"`
}

// Bucket counts attempts whose percentage lies in [Min, Max].
type Bucket struct {
	Label      string  `json:"label"`
	Min        int     `json:"min"`
	Max        int     `json:"max"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type QuestionStats struct {
	QuestionID        uuid.UUID `json:"question_id"`
	Text              string    `json:"text"`
	OrderIndex        int       `json:"order_index"`
	TotalAnswers      int       `json:"total_answers"`
	CorrectAnswers    int       `json:"correct_answers"`
	CorrectPercentage float64   `json:"correct_percentage"`
	DifficultyIndex   float64   `json:"difficulty_index"`
	Difficulty        string    `json:"difficulty"`
}

var bucketBounds = [...][2]int{{0, 20}, {21, 40}, {41, 60}, {61, 80}, {81, 100}}

// Summarize is zeroed for an empty attempt set.
func Summarize(attempts []quiz.QuizAttempt) Summary {
	var s Summary
	if len(attempts) == 0 {
		return s
	}

	users := make(map[uuid.UUID]struct{}, len(attempts))
	var scoreSum float64
	var timeSum, timed int
	s.LowestScore = attempts[0].ScorePercentage()

	for _, a := range attempts {
		pct := a.ScorePercentage()
		scoreSum += pct
		if pct > s.HighestScore {
			s.HighestScore = pct
		}
		if pct < s.LowestScore {
			s.LowestScore = pct
		}
		if a.Passed {
			s.PassedAttempts++
		}
		if a.TimeTakenInMinutes != nil {
			timeSum += *a.TimeTakenInMinutes
			timed++
		}
		users[a.UserID] = struct{}{}
	}

	s.TotalAttempts = len(attempts)
	s.UniqueUsers = len(users)
	s.PassRate = float64(s.PassedAttempts) / float64(s.TotalAttempts) * 100
	s.AverageScore = scoreSum / float64(s.TotalAttempts)
	if timed > 0 {
		s.AverageTimeInMinutes = float64(timeSum) / float64(timed)
	}
	return s
}

// Distribute places each attempt in the first bucket whose upper bound is at
// least its percentage, so a score of exactly 40 lands in 21-40 and 20.5
// lands there too.
func Distribute(attempts []quiz.QuizAttempt) []Bucket {
	buckets := make([]Bucket, len(bucketBounds))
	for i, b := range bucketBounds {
		buckets[i] = Bucket{Label: bucketLabel(b[0], b[1]), Min: b[0], Max: b[1]}
	}

	for _, a := range attempts {
		buckets[bucketIndex(a.ScorePercentage())].Count++
	}

	if len(attempts) > 0 {
		for i := range buckets {
			buckets[i].Percentage = float64(buckets[i].Count) / float64(len(attempts)) * 100
		}
	}
	return buckets
}

func bucketIndex(pct float64) int {
	for i, b := range bucketBounds {
		if pct <= float64(b[1]) {
			return i
		}
	}
	return len(bucketBounds) - 1
}

func bucketLabel(min, max int) string {
	return fmt.Sprintf("%d-%d", min, max)
}

// PerQuestion reports every question still linked to the quiz, in quiz
// order. Answers for questions no longer linked are ignored.
func PerQuestion(c *quiz.Content, answers []quiz.UserAnswer) []QuestionStats {
	type tally struct{ total, correct int }
	byQuestion := make(map[uuid.UUID]*tally, len(c.Links))
	for _, a := range answers {
		t, ok := byQuestion[a.QuestionID]
		if !ok {
			t = &tally{}
			byQuestion[a.QuestionID] = t
		}
		t.total++
		if a.IsCorrect {
			t.correct++
		}
	}

	stats := make([]QuestionStats, 0, len(c.Links))
	for _, l := range c.Links {
		q, ok := c.Questions[l.QuestionID]
		if !ok {
			continue
		}
		qs := QuestionStats{
			QuestionID: q.ID,
			Text:       q.Text,
			OrderIndex: l.OrderIndex,
		}
		if t, ok := byQuestion[q.ID]; ok && t.total > 0 {
			qs.TotalAnswers = t.total
			qs.CorrectAnswers = t.correct
			qs.DifficultyIndex = float64(t.correct) / float64(t.total)
			qs.CorrectPercentage = qs.DifficultyIndex * 100
		}
		qs.Difficulty = DifficultyLabel(qs.DifficultyIndex)
		stats = append(stats, qs)
	}
	return stats
}

// DifficultyLabel maps the share of correct answers to a label.
func DifficultyLabel(index float64) string {
	switch {
	case index >= 0.8:
		return DifficultyEasy
	case index >= 0.6:
		return DifficultyMedium
	case index >= 0.4:
		return DifficultyHard
	default:
		return DifficultyVeryHard
	}
}
