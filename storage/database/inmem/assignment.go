package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a.ID = repo.db.nextID()
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(_ context.Context, id int) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, filter assignment.QueryFilter, ordering core.DBOrdering) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, a := range repo.db.assignments {
		if !matches(filter.Search, a.Title, a.Description) {
			continue
		}
		assignments = append(assignments, *a)
	}

	key := func(a assignment.Assignment) string {
		switch ordering.Field {
		case "title":
			return strings.ToLower(a.Title)
		case "due_date":
			return a.DueDate
		default:
			return timeKey(a.CreatedAt)
		}
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return less(key(assignments[i]), key(assignments[j]), ordering.Ascending)
	})
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.assignments[a.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	a.CreatedAt = orig.CreatedAt
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[id]; !ok {
		return assignment.ErrNotFound
	}
	// children first; all under one lock
	for cid, cmt := range repo.db.assignmentComments {
		if cmt.AssignmentID == id {
			delete(repo.db.assignmentComments, cid)
		}
	}
	delete(repo.db.assignments, id)
	return nil
}

func (repo *assignmentRepository) CreateComment(_ context.Context, cmt assignment.Comment) (assignment.Comment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cmt.ID = repo.db.nextID()
	repo.db.assignmentComments[cmt.ID] = &cmt
	return cmt, nil
}

func (repo *assignmentRepository) GetCommentByID(_ context.Context, id int) (assignment.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cmt, ok := repo.db.assignmentComments[id]; ok {
		return *cmt, nil
	}
	return assignment.Comment{}, assignment.ErrCommentNotFound
}

func (repo *assignmentRepository) QueryCommentsByAssignmentID(_ context.Context, assignmentID int) ([]assignment.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	comments := make([]assignment.Comment, 0)
	for _, cmt := range repo.db.assignmentComments {
		if cmt.AssignmentID == assignmentID {
			comments = append(comments, *cmt)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (repo *assignmentRepository) DeleteComment(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignmentComments[id]; !ok {
		return assignment.ErrCommentNotFound
	}
	delete(repo.db.assignmentComments, id)
	return nil
}
