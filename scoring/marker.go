// Package scoring holds the pure match-play engine: marker assignment, hole
// winners, running standings, early-decision detection and Ryder Cup points.
package scoring

import (
	"errors"
	"fmt"

	"github.com/Dosada05/ryder-manager/models"
)

var ErrMarkerTeamSize = errors.New("marker assignment: team size does not fit the match format")

// GenerateMarkerAssignments pairs every player with an opponent who will
// verify their scores.
//
//	singles:   reciprocal pair (each marks the other)
//	fourball:  crossed pairing A1<->B1, A2<->B2
//	foursomes: one marker per team drawn from the opposing pair
func GenerateMarkerAssignments(teamA, teamB []models.MatchPlayer, format models.MatchFormat) ([]models.MarkerAssignment, error) {
	switch format {
	case models.FormatSingles:
		if len(teamA) != 1 || len(teamB) != 1 {
			return nil, fmt.Errorf("%w: singles needs 1 per team, got %d/%d", ErrMarkerTeamSize, len(teamA), len(teamB))
		}
		return []models.MarkerAssignment{
			{PlayerID: teamA[0].UserID, MarkerID: teamB[0].UserID},
			{PlayerID: teamB[0].UserID, MarkerID: teamA[0].UserID},
		}, nil

	case models.FormatFourball:
		if len(teamA) != 2 || len(teamB) != 2 {
			return nil, fmt.Errorf("%w: fourball needs 2 per team, got %d/%d", ErrMarkerTeamSize, len(teamA), len(teamB))
		}
		return []models.MarkerAssignment{
			{PlayerID: teamA[0].UserID, MarkerID: teamB[0].UserID},
			{PlayerID: teamB[0].UserID, MarkerID: teamA[0].UserID},
			{PlayerID: teamA[1].UserID, MarkerID: teamB[1].UserID},
			{PlayerID: teamB[1].UserID, MarkerID: teamA[1].UserID},
		}, nil

	case models.FormatFoursomes:
		if len(teamA) != 2 || len(teamB) != 2 {
			return nil, fmt.Errorf("%w: foursomes needs 2 per team, got %d/%d", ErrMarkerTeamSize, len(teamA), len(teamB))
		}
		// One shared ball per team: the first listed partner keeps the card,
		// marked from the opposing pair.
		return []models.MarkerAssignment{
			{PlayerID: teamA[0].UserID, MarkerID: teamB[0].UserID},
			{PlayerID: teamB[0].UserID, MarkerID: teamA[0].UserID},
		}, nil
	}
	return nil, fmt.Errorf("unsupported match format %q", format)
}
