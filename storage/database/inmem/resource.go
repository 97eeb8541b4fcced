package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/resource"
)

type resourceRepository struct {
	db *DB
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *DB) *resourceRepository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(_ context.Context, res resource.Resource) (resource.Resource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	res.ID = repo.db.nextID()
	repo.db.resources[res.ID] = &res
	return res, nil
}

func (repo *resourceRepository) GetResourceByID(_ context.Context, id int) (resource.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if res, ok := repo.db.resources[id]; ok {
		return *res, nil
	}
	return resource.Resource{}, resource.ErrNotFound
}

func (repo *resourceRepository) QueryResources(_ context.Context, filter resource.QueryFilter, ordering core.DBOrdering) ([]resource.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	resources := make([]resource.Resource, 0)
	for _, res := range repo.db.resources {
		if !matches(filter.Search, res.Title, res.Description) {
			continue
		}
		resources = append(resources, *res)
	}

	key := func(r resource.Resource) string {
		switch ordering.Field {
		case "title":
			return strings.ToLower(r.Title)
		default:
			return timeKey(r.CreatedAt)
		}
	}
	sort.SliceStable(resources, func(i, j int) bool {
		return less(key(resources[i]), key(resources[j]), ordering.Ascending)
	})
	return resources, nil
}

func (repo *resourceRepository) UpdateResource(_ context.Context, res resource.Resource) (resource.Resource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.resources[res.ID]
	if !ok {
		return resource.Resource{}, resource.ErrNotFound
	}
	res.CreatedAt = orig.CreatedAt
	repo.db.resources[res.ID] = &res
	return res, nil
}

func (repo *resourceRepository) DeleteResource(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.resources[id]; !ok {
		return resource.ErrNotFound
	}
	// children first; all under one lock
	for cid, cmt := range repo.db.resourceComments {
		if cmt.ResourceID == id {
			delete(repo.db.resourceComments, cid)
		}
	}
	delete(repo.db.resources, id)
	return nil
}

func (repo *resourceRepository) CreateComment(_ context.Context, cmt resource.Comment) (resource.Comment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cmt.ID = repo.db.nextID()
	repo.db.resourceComments[cmt.ID] = &cmt
	return cmt, nil
}

func (repo *resourceRepository) GetCommentByID(_ context.Context, id int) (resource.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cmt, ok := repo.db.resourceComments[id]; ok {
		return *cmt, nil
	}
	return resource.Comment{}, resource.ErrCommentNotFound
}

func (repo *resourceRepository) QueryCommentsByResourceID(_ context.Context, resourceID int) ([]resource.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	comments := make([]resource.Comment, 0)
	for _, cmt := range repo.db.resourceComments {
		if cmt.ResourceID == resourceID {
			comments = append(comments, *cmt)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (repo *resourceRepository) DeleteComment(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.resourceComments[id]; !ok {
		return resource.ErrCommentNotFound
	}
	delete(repo.db.resourceComments, id)
	return nil
}
