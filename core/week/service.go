package week

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("week not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrWeekIDExists    = errors.New("a week with this week_id already exists")

	errNoFields = errors.New("no fields provided for update")
)

type (
	Repository interface {
		CheckWeekIDUniqueness(ctx context.Context, weekID string) error
		CreateWeek(ctx context.Context, wk Week) (Week, error)
		GetWeekByWeekID(ctx context.Context, weekID string) (Week, error)
		// QueryWeeks applies QueryFilter.Search as a case-insensitive match on
		// one of Week.Title or Week.Description.
		QueryWeeks(ctx context.Context, filter QueryFilter, ordering core.DBOrdering) ([]Week, error)
		UpdateWeek(ctx context.Context, wk Week) (Week, error)
		// DeleteWeek removes the week and its comments as one atomic unit.
		DeleteWeek(ctx context.Context, weekID string) error

		CreateComment(ctx context.Context, cmt Comment) (Comment, error)
		GetCommentByID(ctx context.Context, id int) (Comment, error)
		QueryCommentsByWeekID(ctx context.Context, weekID string) ([]Comment, error)
		DeleteComment(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nw NewWeek) (Week, error) {
	if err := svc.repo.CheckWeekIDUniqueness(ctx, nw.WeekID); err != nil {
		if errors.Cause(err) == ErrWeekIDExists {
			return Week{}, core.NewConflictError(err, "week_id")
		}
		return Week{}, err
	}

	now := time.Now().UTC()
	wk := Week{
		WeekID:      nw.WeekID,
		Title:       nw.Title,
		StartDate:   nw.StartDate,
		Description: nw.Description,
		Links:       nw.Links,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if nw.Notes != "" {
		wk.Notes.SetValid(nw.Notes)
	}
	if wk.Links == nil {
		wk.Links = []string{}
	}
	return svc.repo.CreateWeek(ctx, wk)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Week, error) {
	filter.Clean()
	return svc.repo.QueryWeeks(ctx, filter, filter.Ordering())
}

func (svc *Service) GetByWeekID(ctx context.Context, weekID string) (Week, error) {
	return svc.repo.GetWeekByWeekID(ctx, core.CleanString(weekID, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, weekID string, uw UpdateWeek) (Week, error) {
	wk, err := svc.repo.GetWeekByWeekID(ctx, weekID)
	if err != nil {
		return Week{}, err
	}

	if uw.Title != "" {
		wk.Title = uw.Title
	}
	if uw.StartDate != "" {
		wk.StartDate = uw.StartDate
	}
	if uw.Description != "" {
		wk.Description = uw.Description
	}
	if uw.Notes != "" {
		wk.Notes.SetValid(uw.Notes)
	}
	if uw.Links != nil {
		wk.Links = uw.Links
	}
	wk.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateWeek(ctx, wk)
}

// Delete removes the week and cascades to its comments.
func (svc *Service) Delete(ctx context.Context, weekID string) error {
	if _, err := svc.repo.GetWeekByWeekID(ctx, weekID); err != nil {
		return err
	}
	return svc.repo.DeleteWeek(ctx, weekID)
}

func (svc *Service) AddComment(ctx context.Context, weekID string, actor user.Actor, nc NewComment) (Comment, error) {
	if _, err := svc.repo.GetWeekByWeekID(ctx, weekID); err != nil {
		return Comment{}, err
	}
	cmt := Comment{
		WeekID:    weekID,
		UserID:    actor.ID,
		Comment:   nc.Comment,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateComment(ctx, cmt)
}

func (svc *Service) QueryComments(ctx context.Context, weekID string) ([]Comment, error) {
	return svc.repo.QueryCommentsByWeekID(ctx, weekID)
}

// DeleteComment removes a comment if the actor owns it or is an admin.
// A denied attempt is a silent no-op, not an error.
func (svc *Service) DeleteComment(ctx context.Context, id int, actor user.Actor) error {
	cmt, err := svc.repo.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.CanModify(actor, cmt.UserID) {
		return nil
	}
	return svc.repo.DeleteComment(ctx, id)
}
