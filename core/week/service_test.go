package week_test

import (
	"context"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/core/week"
	"github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/tests"
)

func setup() (*week.Service, week.Repository) {
	repo := inmemdb.NewWeekRepository(inmemdb.NewDB())
	return week.NewService(repo), repo
}

func TestService_Create(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	wk, err := svc.Create(ctx, week.NewWeek{
		WeekID:      "week1",
		Title:       "Week 1",
		StartDate:   "2021-01-04",
		Description: "course intro",
	})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	if wk.Links == nil {
		t.Error("expected links to default to an empty list")
	}
	if wk.Notes.Valid {
		t.Error("expected notes to be null")
	}

	_, err = svc.Create(ctx, week.NewWeek{
		WeekID:      "week1",
		Title:       "Week 1 bis",
		StartDate:   "2021-01-11",
		Description: "again",
	})
	if !core.IsConflict(err) {
		t.Errorf("Create() error = %v, want a conflict", err)
	}
}

func TestService_Update(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	wk := testutil.CreateWeek(t, repo, "week1", "Week 1", "2021-01-04")

	updated, err := svc.Update(ctx, "week1", week.UpdateWeek{Title: "Week One"})
	if err != nil {
		t.Fatalf("Update() failed, %v", err)
	}
	if updated.Title != "Week One" {
		t.Errorf("Title = %v, want Week One", updated.Title)
	}
	if updated.StartDate != wk.StartDate {
		t.Errorf("StartDate = %v; untouched fields must survive", updated.StartDate)
	}
	if !updated.CreatedAt.Equal(wk.CreatedAt) {
		t.Error("CreatedAt must not change on update")
	}

	if _, err = svc.Update(ctx, "lol", week.UpdateWeek{Title: "X"}); err != week.ErrNotFound {
		t.Errorf("Update() error = %v, want %v", err, week.ErrNotFound)
	}
}

func TestService_DeleteCascades(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	wk := testutil.CreateWeek(t, repo, "week1", "Week 1", "2021-01-04")
	cmt := testutil.CreateWeekComment(t, repo, wk.WeekID, "usr1", "hello")

	if err := svc.Delete(ctx, wk.WeekID); err != nil {
		t.Fatalf("Delete() failed, %v", err)
	}
	if _, err := repo.GetWeekByWeekID(ctx, wk.WeekID); err != week.ErrNotFound {
		t.Errorf("GetWeekByWeekID() error = %v, want %v", err, week.ErrNotFound)
	}
	if _, err := repo.GetCommentByID(ctx, cmt.ID); err != week.ErrCommentNotFound {
		t.Errorf("GetCommentByID() error = %v, want %v", err, week.ErrCommentNotFound)
	}
}

func TestService_DeleteComment(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	wk := testutil.CreateWeek(t, repo, "week1", "Week 1", "2021-01-04")
	cmt := testutil.CreateWeekComment(t, repo, wk.WeekID, "usr1", "hello")

	// non-owner: silent no-op
	if err := svc.DeleteComment(ctx, cmt.ID, user.Actor{ID: "usr2", Role: user.RoleStudent}); err != nil {
		t.Fatalf("DeleteComment() failed, %v", err)
	}
	if _, err := repo.GetCommentByID(ctx, cmt.ID); err != nil {
		t.Errorf("expected comment to survive; got %v", err)
	}

	// owner
	if err := svc.DeleteComment(ctx, cmt.ID, user.Actor{ID: "usr1", Role: user.RoleStudent}); err != nil {
		t.Fatalf("DeleteComment() failed, %v", err)
	}
	if _, err := repo.GetCommentByID(ctx, cmt.ID); err != week.ErrCommentNotFound {
		t.Errorf("GetCommentByID() error = %v, want %v", err, week.ErrCommentNotFound)
	}

	// unknown comment
	if err := svc.DeleteComment(ctx, cmt.ID, user.Actor{ID: "usr1", Role: user.RoleStudent}); err != week.ErrCommentNotFound {
		t.Errorf("DeleteComment() error = %v, want %v", err, week.ErrCommentNotFound)
	}
}

func TestService_Query(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	wk2 := testutil.CreateWeek(t, repo, "week2", "Week 2", "2021-01-11")
	wk1 := testutil.CreateWeek(t, repo, "week1", "Week 1", "2021-01-04")

	// default: start_date asc
	weeks, err := svc.Query(ctx, week.QueryFilter{})
	if err != nil {
		t.Fatalf("Query() failed, %v", err)
	}
	if len(weeks) != 2 || weeks[0].WeekID != wk1.WeekID || weeks[1].WeekID != wk2.WeekID {
		t.Errorf("unexpected result: %+v", weeks)
	}

	// unknown sort falls back to the default
	weeks, err = svc.Query(ctx, week.QueryFilter{Sort: "lol", Order: "desc"})
	if err != nil {
		t.Fatalf("Query() failed, %v", err)
	}
	if len(weeks) != 2 || weeks[0].WeekID != wk2.WeekID {
		t.Errorf("unexpected result: %+v", weeks)
	}

	// search
	weeks, err = svc.Query(ctx, week.QueryFilter{Search: "week 1"})
	if err != nil {
		t.Fatalf("Query() failed, %v", err)
	}
	if len(weeks) != 1 || weeks[0].WeekID != wk1.WeekID {
		t.Errorf("unexpected result: %+v", weeks)
	}
}
