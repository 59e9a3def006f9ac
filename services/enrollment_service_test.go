package services

import (
	"context"
	"testing"

	"github.com/Dosada05/ryder-manager/models"
	"github.com/Dosada05/ryder-manager/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnrollmentRepo struct {
	repositories.EnrollmentRepository

	approvedCount int
	countErr      error
	existing      *models.Enrollment
	findErr       error
}

func (f *fakeEnrollmentRepo) CountApprovedByCompetition(ctx context.Context, exec repositories.SQLExecutor, competitionID int) (int, error) {
	return f.approvedCount, f.countErr
}

func (f *fakeEnrollmentRepo) FindByUserAndCompetition(ctx context.Context, exec repositories.SQLExecutor, userID, competitionID int) (*models.Enrollment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.existing, nil
}

func capacityCompetition(maxPlayers int) *models.Competition {
	return &models.Competition{ID: 1, MaxPlayers: maxPlayers, Status: models.CompetitionActive}
}

func TestCheckCapacity_BelowLimit(t *testing.T) {
	svc := &enrollmentService{repo: &fakeEnrollmentRepo{approvedCount: 1}}

	err := svc.checkCapacity(context.Background(), nil, capacityCompetition(2))
	assert.NoError(t, err)
}

func TestCheckCapacity_Full(t *testing.T) {
	svc := &enrollmentService{repo: &fakeEnrollmentRepo{approvedCount: 2}}

	err := svc.checkCapacity(context.Background(), nil, capacityCompetition(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompetitionFull)
	assert.Contains(t, err.Error(), "2 of 2")
}

func TestCheckCapacity_OverLimit(t *testing.T) {
	svc := &enrollmentService{repo: &fakeEnrollmentRepo{approvedCount: 5}}

	err := svc.checkCapacity(context.Background(), nil, capacityCompetition(2))
	assert.ErrorIs(t, err, ErrCompetitionFull)
}

func TestCheckNoLiveEnrollment_NoneExists(t *testing.T) {
	svc := &enrollmentService{repo: &fakeEnrollmentRepo{findErr: repositories.ErrEnrollmentNotFound}}

	err := svc.checkNoLiveEnrollment(context.Background(), nil, 3, 1)
	assert.NoError(t, err)
}

func TestCheckNoLiveEnrollment_LiveEnrollmentBlocks(t *testing.T) {
	for _, status := range []models.EnrollmentStatus{
		models.EnrollmentRequested,
		models.EnrollmentInvited,
		models.EnrollmentApproved,
	} {
		svc := &enrollmentService{repo: &fakeEnrollmentRepo{
			existing: &models.Enrollment{ID: 7, UserID: 3, CompetitionID: 1, Status: status},
		}}

		err := svc.checkNoLiveEnrollment(context.Background(), nil, 3, 1)
		assert.ErrorIs(t, err, ErrEnrollmentConflict, "status %s", status)
	}
}

func TestCheckNoLiveEnrollment_TerminalAllowsReenrollment(t *testing.T) {
	for _, status := range []models.EnrollmentStatus{
		models.EnrollmentRejected,
		models.EnrollmentCancelled,
		models.EnrollmentWithdrawn,
	} {
		svc := &enrollmentService{repo: &fakeEnrollmentRepo{
			existing: &models.Enrollment{ID: 7, UserID: 3, CompetitionID: 1, Status: status},
		}}

		err := svc.checkNoLiveEnrollment(context.Background(), nil, 3, 1)
		assert.NoError(t, err, "status %s", status)
	}
}
