// Package handicap implements the WHS playing-handicap calculation and
// per-hole stroke allocation.
package handicap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Dosada05/ryder-manager/models"
)

// Neutral slope rating per the WHS: a course of average difficulty.
const NeutralSlope = 113

var (
	ErrInvalidSlope     = errors.New("slope rating must be positive")
	ErrInvalidAllowance = errors.New("allowance percentage must be between 50 and 100")
)

// Input carries everything the WHS formula needs for one player.
type Input struct {
	HandicapIndex float64
	SlopeRating   int
	CourseRating  float64
	Par           int
	AllowancePct  int
}

// PlayingHandicap applies the WHS formula:
//
//	PH = (HI × (Slope/113) + (CR − Par)) × Allowance%
//
// rounded to the nearest integer, halves away from zero.
func PlayingHandicap(in Input) (int, error) {
	if in.SlopeRating <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSlope, in.SlopeRating)
	}
	if in.AllowancePct < models.AllowanceMin || in.AllowancePct > models.AllowanceMax {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidAllowance, in.AllowancePct)
	}
	courseHandicap := in.HandicapIndex*(float64(in.SlopeRating)/NeutralSlope) + (in.CourseRating - float64(in.Par))
	ph := courseHandicap * float64(in.AllowancePct) / 100
	return int(math.Round(ph)), nil
}

// DefaultAllowance returns the WHS allowance for a round's format, subject to
// the singles handicap mode. Singles match play plays off the difference at
// 100%, singles stroke play at 95%, fourball at 90%, foursomes at 50%.
func DefaultAllowance(format models.MatchFormat, mode *models.HandicapMode) int {
	switch format {
	case models.FormatFourball:
		return 90
	case models.FormatFoursomes:
		return 50
	case models.FormatSingles:
		if mode != nil && *mode == models.HandicapStrokePlay {
			return 95
		}
		return 100
	}
	return 100
}

// Allowance resolves the round's effective allowance: the per-round override
// when present, the WHS format default otherwise.
func Allowance(round *models.Round) int {
	if round.AllowanceOverride != nil {
		return *round.AllowanceOverride
	}
	return DefaultAllowance(round.Format, round.HandicapMode)
}

// ApplyMatchPlayDifference rebases a singles match-play pairing so the lower
// handicap plays off zero and the higher receives the difference.
func ApplyMatchPlayDifference(phA, phB int) (int, int) {
	low := phA
	if phB < low {
		low = phB
	}
	return phA - low, phB - low
}

// TeamHandicapIndex is the foursomes team index: the average of the two
// partners' handicap indexes.
func TeamHandicapIndex(hi1, hi2 float64) float64 {
	return (hi1 + hi2) / 2
}

// StrokeHoles allocates a non-negative playing handicap over the holes by
// stroke index: a PH of n gives one stroke on each of the n hardest holes.
// A PH above 18 wraps around; the engine stores at most one stroke per hole,
// matching the 0/1 strokes-received model. strokeIndexes[i] ranks hole i+1,
// 1 being the hardest.
func StrokeHoles(playingHandicap int, strokeIndexes []int) []int {
	if playingHandicap <= 0 || len(strokeIndexes) == 0 {
		return nil
	}
	type holeRank struct {
		hole  int
		index int
	}
	ranked := make([]holeRank, 0, len(strokeIndexes))
	for i, si := range strokeIndexes {
		ranked = append(ranked, holeRank{hole: i + 1, index: si})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].index < ranked[j].index })

	n := playingHandicap
	if n > len(ranked) {
		n = len(ranked)
	}
	holes := make([]int, 0, n)
	for _, hr := range ranked[:n] {
		holes = append(holes, hr.hole)
	}
	sort.Ints(holes)
	return holes
}
