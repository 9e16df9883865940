package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

func newMentorServiceForTest() *MentorService {
	students, placements, mentors := sampleInstitution()
	return NewMentorService(students, placements, mentors, nil)
}

func TestMentorDashboardScopesToAssignedStudents(t *testing.T) {
	svc := newMentorServiceForTest()

	resp, page, err := svc.Dashboard(context.Background(), mentorClaims("m1"), placement.CohortOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", resp.Mentor.Name)
	assert.Equal(t, []string{"Ana", "Ben"}, viewNames(resp.Students))
	assert.Equal(t, 2, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.Placed)
	assert.Equal(t, 8.25, resp.Stats.AverageCGPA)
	assert.Equal(t, 12.0, resp.Stats.HighestPackage)
	assert.Equal(t, []string{"CSE", "ECE"}, resp.Stats.Branches)
	assert.Equal(t, "all", resp.Filters.Status)
	assert.Equal(t, placement.SortNameAsc, resp.Filters.Sort)
	assert.Equal(t, 1, page.TotalPages)
}

func TestMentorDashboardFilters(t *testing.T) {
	svc := newMentorServiceForTest()
	ctx := context.Background()

	resp, _, err := svc.Dashboard(ctx, mentorClaims("m1"), placement.CohortOptions{Status: "placed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, viewNames(resp.Students))
	assert.Equal(t, 1, resp.Stats.Total)
	assert.Equal(t, 2, resp.Stats.ScopeTotal)

	resp, _, err = svc.Dashboard(ctx, mentorClaims("m1"), placement.CohortOptions{Search: " BEN "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ben"}, viewNames(resp.Students))

	resp, _, err = svc.Dashboard(ctx, mentorClaims("m2"), placement.CohortOptions{})
	require.NoError(t, err)
	assert.Empty(t, resp.Students)
	assert.Equal(t, 0.0, resp.Stats.AverageCGPA)
}

func TestMentorExportRowsKeepSort(t *testing.T) {
	svc := newMentorServiceForTest()

	rows, err := svc.ExportRows(context.Background(), mentorClaims("m1"), placement.CohortOptions{Sort: placement.SortCGPAAsc, Page: "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ben", "Ana"}, viewNames(rows))
}

func TestMentorDashboardAccess(t *testing.T) {
	svc := newMentorServiceForTest()
	ctx := context.Background()

	_, _, err := svc.Dashboard(ctx, tpoClaims(), placement.CohortOptions{})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	_, _, err = svc.Dashboard(ctx, &models.JWTClaims{Role: models.RoleMentor}, placement.CohortOptions{})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	_, err = svc.ExportRows(ctx, mentorClaims("m404"), placement.CohortOptions{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
