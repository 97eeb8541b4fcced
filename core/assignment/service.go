package assignment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound        = errors.New("assignment not found")
	ErrCommentNotFound = errors.New("comment not found")

	errNoFields = errors.New("no fields provided for update")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id int) (Assignment, error)
		// QueryAssignments applies QueryFilter.Search as a case-insensitive
		// match on one of Assignment.Title or Assignment.Description.
		QueryAssignments(ctx context.Context, filter QueryFilter, ordering core.DBOrdering) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		// DeleteAssignment removes the assignment and its comments as one atomic unit.
		DeleteAssignment(ctx context.Context, id int) error

		CreateComment(ctx context.Context, cmt Comment) (Comment, error)
		GetCommentByID(ctx context.Context, id int) (Comment, error)
		QueryCommentsByAssignmentID(ctx context.Context, assignmentID int) ([]Comment, error)
		DeleteComment(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	a := Assignment{
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		Files:       na.Files,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if a.Files == nil {
		a.Files = []string{}
	}
	return svc.repo.CreateAssignment(ctx, a)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Assignment, error) {
	filter.Clean()
	return svc.repo.QueryAssignments(ctx, filter, filter.Ordering())
}

func (svc *Service) GetByID(ctx context.Context, id int) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAssignment) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}

	if ua.Title != "" {
		a.Title = ua.Title
	}
	if ua.Description != "" {
		a.Description = ua.Description
	}
	if ua.DueDate != "" {
		a.DueDate = ua.DueDate
	}
	if ua.Files != nil {
		a.Files = ua.Files
	}
	a.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAssignment(ctx, a)
}

// Delete removes the assignment and cascades to its comments.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetAssignmentByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteAssignment(ctx, id)
}

func (svc *Service) AddComment(ctx context.Context, assignmentID int, nc NewComment) (Comment, error) {
	if _, err := svc.repo.GetAssignmentByID(ctx, assignmentID); err != nil {
		return Comment{}, err
	}
	cmt := Comment{
		AssignmentID: assignmentID,
		Author:       nc.Author,
		Text:         nc.Text,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateComment(ctx, cmt)
}

func (svc *Service) QueryComments(ctx context.Context, assignmentID int) ([]Comment, error) {
	return svc.repo.QueryCommentsByAssignmentID(ctx, assignmentID)
}

// DeleteComment removes a comment. Any caller may delete any comment here;
// unlike week/resource comments there is no ownership on this table.
func (svc *Service) DeleteComment(ctx context.Context, id int) error {
	if _, err := svc.repo.GetCommentByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteComment(ctx, id)
}
