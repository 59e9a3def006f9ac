package scoring

import (
	"errors"

	"github.com/Dosada05/ryder-manager/models"
)

// HoleOutcome is the result of one hole from team A's perspective.
type HoleOutcome string

const (
	HoleWonByA HoleOutcome = "A"
	HoleWonByB HoleOutcome = "B"
	HoleHalved HoleOutcome = "HALVED"
)

var ErrNoScores = errors.New("cannot determine hole winner without scores")

// HoleResult couples a hole number with its outcome.
type HoleResult struct {
	HoleNumber int         `json:"hole_number"`
	Outcome    HoleOutcome `json:"outcome"`
}

// CalculateHoleWinner compares the teams' net scores on one hole. A nil
// entry is a picked-up ball and loses to any recorded score.
//
//	singles:   the single net score per side
//	fourball:  each team's best ball
//	foursomes: the single shared net score per side
func CalculateHoleWinner(teamANet, teamBNet []*int, format models.MatchFormat) (HoleOutcome, error) {
	if len(teamANet) == 0 || len(teamBNet) == 0 {
		return "", ErrNoScores
	}
	bestA := bestBall(teamANet)
	bestB := bestBall(teamBNet)

	switch {
	case bestA == nil && bestB == nil:
		return HoleHalved, nil
	case bestA == nil:
		return HoleWonByB, nil
	case bestB == nil:
		return HoleWonByA, nil
	case *bestA < *bestB:
		return HoleWonByA, nil
	case *bestB < *bestA:
		return HoleWonByB, nil
	}
	return HoleHalved, nil
}

// bestBall returns the lowest non-nil net score, nil when every ball was
// picked up. For singles and foursomes the slice holds a single entry, so
// best-ball degenerates to the plain comparison.
func bestBall(nets []*int) *int {
	var best *int
	for _, n := range nets {
		if n == nil {
			continue
		}
		if best == nil || *n < *best {
			best = n
		}
	}
	return best
}
