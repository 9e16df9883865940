package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

func newTPOServiceForTest(cacheRepo CacheRepository) (*TPOService, *fakeStudents, *fakePlacements) {
	students, placements, mentors := sampleInstitution()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, cacheRepo != nil)
	svc := NewTPOService(TPOServiceParams{
		Students:   students,
		Placements: placements,
		Mentors:    mentors,
		Cache:      cache,
	})
	return svc, students, placements
}

func viewNames(views []placement.StudentView) []string {
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name)
	}
	return names
}

func TestTPODashboardInstitutionStats(t *testing.T) {
	svc, _, _ := newTPOServiceForTest(nil)

	resp, hit, err := svc.Dashboard(context.Background(), tpoClaims(), dto.TPODashboardFilter{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"Ana", "Ben", "Cai"}, viewNames(resp.Students))
	assert.Equal(t, dto.InstitutionStats{
		TotalStudents:  3,
		Placed:         1,
		NotPlaced:      2,
		InProgress:     1,
		AverageCGPA:    8.17,
		HighestPackage: 18,
	}, resp.Stats)
	assert.Equal(t, []string{"CSE", "ECE"}, resp.Branches)
	assert.Len(t, resp.Mentors, 2)
	require.NotNil(t, resp.Students[0].TopOffer)
	assert.Equal(t, "Acme", resp.Students[0].TopOffer.Company)
}

func TestTPODashboardFiltersKeepInstitutionStats(t *testing.T) {
	svc, _, _ := newTPOServiceForTest(nil)
	ctx := context.Background()

	resp, _, err := svc.Dashboard(ctx, tpoClaims(), dto.TPODashboardFilter{Branch: "CSE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Cai"}, viewNames(resp.Students))
	assert.Equal(t, 3, resp.Stats.TotalStudents)

	resp, _, err = svc.Dashboard(ctx, tpoClaims(), dto.TPODashboardFilter{MentorID: "m1", Status: "in-progress"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ben"}, viewNames(resp.Students))
	assert.Equal(t, "in-progress", resp.Filters.Status)

	resp, _, err = svc.Dashboard(ctx, tpoClaims(), dto.TPODashboardFilter{Branch: "all", MentorID: "all", Status: "not-placed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cai"}, viewNames(resp.Students))

	resp, _, err = svc.Dashboard(ctx, tpoClaims(), dto.TPODashboardFilter{Status: "archived"})
	require.NoError(t, err)
	assert.Len(t, resp.Students, 3)
}

func TestTPODashboardCachesOverviewUntilMutation(t *testing.T) {
	cache := newMemoryCache()
	svc, students, _ := newTPOServiceForTest(cache)
	ctx := context.Background()

	_, hit, err := svc.Dashboard(ctx, tpoClaims(), dto.TPODashboardFilter{})
	require.NoError(t, err)
	assert.False(t, hit)

	resp, hit, err := svc.Dashboard(ctx, tpoClaims(), dto.TPODashboardFilter{Branch: "ECE"})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Ben"}, viewNames(resp.Students))
	assert.Equal(t, 1, students.listCalls)

	_, err = svc.AssignMentor(ctx, tpoClaims(), dto.AssignMentorRequest{StudentID: "s3", MentorID: "m2"})
	require.NoError(t, err)
	assert.Contains(t, cache.deleted, tpoDashboardCachePattern)

	resp, hit, err = svc.Dashboard(ctx, tpoClaims(), dto.TPODashboardFilter{MentorID: "m2"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"Cai"}, viewNames(resp.Students))
	assert.Equal(t, 2, students.listCalls)
}

func TestTPOServiceRejectsOtherRoles(t *testing.T) {
	svc, _, _ := newTPOServiceForTest(nil)
	ctx := context.Background()

	_, _, err := svc.Dashboard(ctx, mentorClaims("m1"), dto.TPODashboardFilter{})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	_, err = svc.BulkAssignMentor(ctx, studentClaims("s1"), dto.BulkAssignRequest{StudentIDs: []string{"s1"}, MentorID: "m1"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	_, _, err = svc.Placements(ctx, nil, placement.ListingOptions{})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAssignMentor(t *testing.T) {
	svc, students, _ := newTPOServiceForTest(nil)
	ctx := context.Background()

	student, err := svc.AssignMentor(ctx, tpoClaims(), dto.AssignMentorRequest{StudentID: "s1", MentorID: "none"})
	require.NoError(t, err)
	assert.Nil(t, student.MentorID)
	assert.Nil(t, students.find("s1").MentorID)

	student, err = svc.AssignMentor(ctx, tpoClaims(), dto.AssignMentorRequest{StudentID: "s1", MentorID: "m2"})
	require.NoError(t, err)
	require.NotNil(t, student.MentorID)
	assert.Equal(t, "m2", *student.MentorID)

	_, err = svc.AssignMentor(ctx, tpoClaims(), dto.AssignMentorRequest{StudentID: "s1", MentorID: "m404"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = svc.AssignMentor(ctx, tpoClaims(), dto.AssignMentorRequest{StudentID: "s404", MentorID: "m1"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = svc.AssignMentor(ctx, tpoClaims(), dto.AssignMentorRequest{StudentID: "s1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestBulkAssignMentor(t *testing.T) {
	svc, students, _ := newTPOServiceForTest(nil)
	ctx := context.Background()

	resp, err := svc.BulkAssignMentor(ctx, tpoClaims(), dto.BulkAssignRequest{StudentIDs: []string{"s3", "s3", "s2"}, MentorID: "m2"})
	require.NoError(t, err)
	assert.Equal(t, &dto.BulkAssignResponse{MentorID: "m2", Updated: 2}, resp)
	assert.Equal(t, "m2", *students.find("s2").MentorID)
	assert.Equal(t, "m2", *students.find("s3").MentorID)

	_, err = svc.BulkAssignMentor(ctx, tpoClaims(), dto.BulkAssignRequest{StudentIDs: []string{"s1", "s404"}, MentorID: "m2"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "m1", *students.find("s1").MentorID)

	_, err = svc.BulkAssignMentor(ctx, tpoClaims(), dto.BulkAssignRequest{StudentIDs: []string{"s1"}, MentorID: "m404"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.BulkAssignMentor(ctx, tpoClaims(), dto.BulkAssignRequest{MentorID: "m2"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestPlacementListing(t *testing.T) {
	svc, _, _ := newTPOServiceForTest(nil)

	resp, page, err := svc.Placements(context.Background(), tpoClaims(), placement.ListingOptions{})
	require.NoError(t, err)
	require.Len(t, resp.Placements, 3)
	assert.Equal(t, "p3", resp.Placements[0].ID)
	assert.Equal(t, "p1", resp.Placements[2].ID)
	assert.Equal(t, 18.0, resp.Stats.HighestPackage)
	assert.Equal(t, []string{"CSE", "ECE"}, resp.Stats.Branches)
	assert.Equal(t, 3, resp.Institution.Total)
	assert.Equal(t, 8.17, resp.Institution.AverageCGPA)
	assert.Equal(t, "all", resp.Filters.Status)
	assert.Equal(t, placement.SortDateDesc, resp.Filters.Sort)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 3, page.TotalItems)

	resp, _, err = svc.Placements(context.Background(), tpoClaims(), placement.ListingOptions{Branch: "CSE", Sort: placement.SortPackageDesc})
	require.NoError(t, err)
	require.Len(t, resp.Placements, 2)
	assert.Equal(t, "p2", resp.Placements[0].ID)
	assert.Equal(t, 18.0, resp.Placements[0].PackageLPA)
}

func TestExportRowsOrdering(t *testing.T) {
	svc, _, _ := newTPOServiceForTest(nil)
	ctx := context.Background()

	rows, err := svc.PlacementExportRows(ctx, tpoClaims(), placement.ListingOptions{Sort: placement.SortPackageAsc})
	require.NoError(t, err)
	ids := []string{rows[0].ID, rows[1].ID, rows[2].ID}
	assert.Equal(t, []string{"p3", "p2", "p1"}, ids)

	students, err := svc.StudentExportRows(ctx, tpoClaims())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Ben", "Cai"}, viewNames(students))
	assert.Equal(t, placement.StatusInProgress, students[1].Status)
}
