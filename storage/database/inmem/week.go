package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/week"
)

type weekRepository struct {
	db *DB
}

var _ week.Repository = (*weekRepository)(nil)

func NewWeekRepository(db *DB) *weekRepository {
	return &weekRepository{db: db}
}

func (repo *weekRepository) CheckWeekIDUniqueness(_ context.Context, weekID string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.weeks[weekID]; ok {
		return week.ErrWeekIDExists
	}
	return nil
}

func (repo *weekRepository) CreateWeek(_ context.Context, wk week.Week) (week.Week, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	wk.ID = repo.db.nextID()
	repo.db.weeks[wk.WeekID] = &wk
	return wk, nil
}

func (repo *weekRepository) GetWeekByWeekID(_ context.Context, weekID string) (week.Week, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if wk, ok := repo.db.weeks[weekID]; ok {
		return *wk, nil
	}
	return week.Week{}, week.ErrNotFound
}

func (repo *weekRepository) QueryWeeks(_ context.Context, filter week.QueryFilter, ordering core.DBOrdering) ([]week.Week, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	weeks := make([]week.Week, 0)
	for _, wk := range repo.db.weeks {
		if !matches(filter.Search, wk.Title, wk.Description) {
			continue
		}
		weeks = append(weeks, *wk)
	}

	key := func(w week.Week) string {
		switch ordering.Field {
		case "title":
			return strings.ToLower(w.Title)
		case "created_at":
			return timeKey(w.CreatedAt)
		default:
			return w.StartDate
		}
	}
	sort.SliceStable(weeks, func(i, j int) bool {
		return less(key(weeks[i]), key(weeks[j]), ordering.Ascending)
	})
	return weeks, nil
}

func (repo *weekRepository) UpdateWeek(_ context.Context, wk week.Week) (week.Week, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.weeks[wk.WeekID]
	if !ok {
		return week.Week{}, week.ErrNotFound
	}
	wk.ID = orig.ID
	wk.CreatedAt = orig.CreatedAt
	repo.db.weeks[wk.WeekID] = &wk
	return wk, nil
}

func (repo *weekRepository) DeleteWeek(_ context.Context, weekID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.weeks[weekID]; !ok {
		return week.ErrNotFound
	}
	// children first; all under one lock
	for id, cmt := range repo.db.weekComments {
		if cmt.WeekID == weekID {
			delete(repo.db.weekComments, id)
		}
	}
	delete(repo.db.weeks, weekID)
	return nil
}

func (repo *weekRepository) CreateComment(_ context.Context, cmt week.Comment) (week.Comment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cmt.ID = repo.db.nextID()
	repo.db.weekComments[cmt.ID] = &cmt
	return cmt, nil
}

func (repo *weekRepository) GetCommentByID(_ context.Context, id int) (week.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cmt, ok := repo.db.weekComments[id]; ok {
		return *cmt, nil
	}
	return week.Comment{}, week.ErrCommentNotFound
}

func (repo *weekRepository) QueryCommentsByWeekID(_ context.Context, weekID string) ([]week.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	comments := make([]week.Comment, 0)
	for _, cmt := range repo.db.weekComments {
		if cmt.WeekID == weekID {
			comments = append(comments, *cmt)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID // insertion order == created_at asc
	})
	return comments, nil
}

func (repo *weekRepository) DeleteComment(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.weekComments[id]; !ok {
		return week.ErrCommentNotFound
	}
	delete(repo.db.weekComments, id)
	return nil
}
