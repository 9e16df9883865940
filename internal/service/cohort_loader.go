package service

import (
	"context"

	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

type placementGrouper interface {
	ListByStudents(ctx context.Context, studentIDs []string) (map[string][]models.Placement, error)
}

// loadStudentRecords loads the students matching filter with all their placements, in repository order.
func loadStudentRecords(ctx context.Context, students studentLister, placements placementGrouper, filter models.StudentFilter) ([]placement.StudentRecord, error) {
	list, err := students.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	grouped, err := placements.ListByStudents(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placements")
	}
	records := make([]placement.StudentRecord, 0, len(list))
	for _, s := range list {
		records = append(records, placement.StudentRecord{Student: s, Placements: grouped[s.ID]})
	}
	return records, nil
}
