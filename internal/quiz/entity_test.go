package quiz

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

// passedExactly evaluates score/total*100 >= passing with rationals.
func passedExactly(score, total, passing int) bool {
	if total <= 0 {
		return false
	}
	pct := big.NewRat(int64(score)*100, int64(total))
	return pct.Cmp(big.NewRat(int64(passing), 1)) >= 0
}

func TestHasPassed(t *testing.T) {
	t.Run("exact boundaries pass", func(t *testing.T) {
		cases := []struct{ score, total, passing int }{
			{29, 50, 58},
			{29, 100, 29},
			{57, 100, 57},
			{58, 100, 58},
			{6, 10, 60},
			{1, 3, 33},
		}
		for _, tc := range cases {
			assert.True(t, HasPassed(tc.score, tc.total, tc.passing), "%d/%d at %d", tc.score, tc.total, tc.passing)
		}
	})

	t.Run("just below the boundary fails", func(t *testing.T) {
		assert.False(t, HasPassed(28, 50, 58))
		assert.False(t, HasPassed(1, 3, 34))
	})

	t.Run("zero total never passes", func(t *testing.T) {
		assert.False(t, HasPassed(0, 0, 0))
		assert.False(t, HasPassed(5, 0, 0))
	})

	t.Run("matches exact arithmetic for every score and threshold", func(t *testing.T) {
		mismatches := 0
		for total := 1; total <= 100; total++ {
			for score := 0; score <= total; score++ {
				for passing := 0; passing <= 100; passing++ {
					if HasPassed(score, total, passing) != passedExactly(score, total, passing) {
						mismatches++
						if mismatches <= 5 {
							t.Errorf("score=%d total=%d passing=%d", score, total, passing)
						}
					}
				}
			}
		}
		assert.Zero(t, mismatches)
	})
}
