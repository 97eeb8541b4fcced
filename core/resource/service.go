package resource

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("resource not found")
	ErrCommentNotFound = errors.New("comment not found")

	errNoFields = errors.New("no fields provided for update")
)

type (
	Repository interface {
		CreateResource(ctx context.Context, res Resource) (Resource, error)
		GetResourceByID(ctx context.Context, id int) (Resource, error)
		// QueryResources applies QueryFilter.Search as a case-insensitive
		// match on one of Resource.Title or Resource.Description.
		QueryResources(ctx context.Context, filter QueryFilter, ordering core.DBOrdering) ([]Resource, error)
		UpdateResource(ctx context.Context, res Resource) (Resource, error)
		// DeleteResource removes the resource and its comments as one atomic unit.
		DeleteResource(ctx context.Context, id int) error

		CreateComment(ctx context.Context, cmt Comment) (Comment, error)
		GetCommentByID(ctx context.Context, id int) (Comment, error)
		QueryCommentsByResourceID(ctx context.Context, resourceID int) ([]Comment, error)
		DeleteComment(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nr NewResource) (Resource, error) {
	now := time.Now().UTC()
	res := Resource{
		Title:       nr.Title,
		Description: nr.Description,
		Link:        nr.Link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateResource(ctx, res)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Resource, error) {
	filter.Clean()
	return svc.repo.QueryResources(ctx, filter, filter.Ordering())
}

func (svc *Service) GetByID(ctx context.Context, id int) (Resource, error) {
	return svc.repo.GetResourceByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ur UpdateResource) (Resource, error) {
	res, err := svc.repo.GetResourceByID(ctx, id)
	if err != nil {
		return Resource{}, err
	}

	if ur.Title != "" {
		res.Title = ur.Title
	}
	if ur.Description != "" {
		res.Description = ur.Description
	}
	if ur.Link != "" {
		res.Link = ur.Link
	}
	res.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateResource(ctx, res)
}

// Delete removes the resource and cascades to its comments.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetResourceByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteResource(ctx, id)
}

func (svc *Service) AddComment(ctx context.Context, resourceID int, actor user.Actor, nc NewComment) (Comment, error) {
	if _, err := svc.repo.GetResourceByID(ctx, resourceID); err != nil {
		return Comment{}, err
	}
	cmt := Comment{
		ResourceID: resourceID,
		UserID:     actor.ID,
		Comment:    nc.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateComment(ctx, cmt)
}

func (svc *Service) QueryComments(ctx context.Context, resourceID int) ([]Comment, error) {
	return svc.repo.QueryCommentsByResourceID(ctx, resourceID)
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
