package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/week"
)

const (
	weekTable        = "week"
	weekCommentTable = "week_comment"
)

var (
	weekColumns        = []string{"id", "week_id", "title", "start_date", "description", "notes", "links", "created_at", "updated_at"}
	weekCommentColumns = []string{"id", "week_id", "user_id", "comment", "created_at"}
)

type weekRow struct {
	ID          int         `db:"id"`
	WeekID      string      `db:"week_id"`
	Title       string      `db:"title"`
	StartDate   string      `db:"start_date"`
	Description string      `db:"description"`
	Notes       null.String `db:"notes"`
	Links       []byte      `db:"links"` // JSON array
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (row weekRow) week() (week.Week, error) {
	links := make([]string, 0)
	if len(row.Links) > 0 {
		if err := json.Unmarshal(row.Links, &links); err != nil {
			return week.Week{}, errors.Wrap(err, "decoding week links")
		}
	}
	return week.Week{
		ID:          row.ID,
		WeekID:      row.WeekID,
		Title:       row.Title,
		StartDate:   row.StartDate,
		Description: row.Description,
		Notes:       row.Notes,
		Links:       links,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

type weekCommentRow struct {
	ID        int       `db:"id"`
	WeekID    string    `db:"week_id"`
	UserID    string    `db:"user_id"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

func (row weekCommentRow) comment() week.Comment {
	return week.Comment{
		ID:        row.ID,
		WeekID:    row.WeekID,
		UserID:    row.UserID,
		Comment:   row.Comment,
		CreatedAt: row.CreatedAt,
	}
}

type weekRepository struct {
	db *sqlx.DB
}

var _ week.Repository = (*weekRepository)(nil) // interface compliance check

func NewWeekRepository(db *sqlx.DB) *weekRepository {
	return &weekRepository{db: db}
}

func (repo *weekRepository) CheckWeekIDUniqueness(ctx context.Context, weekID string) error {
	stmt, args, err := psql.
		Select("COUNT(*)").
		From(weekTable).
		Where(sq.Eq{"week_id": weekID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building week uniqueness query")
	}

	var cnt int
	if err = repo.db.GetContext(ctx, &cnt, stmt, args...); err != nil {
		return errors.Wrap(err, "checking week uniqueness")
	}
	if cnt > 0 {
		return week.ErrWeekIDExists
	}
	return nil
}

func (repo *weekRepository) CreateWeek(ctx context.Context, wk week.Week) (week.Week, error) {
	links, err := json.Marshal(wk.Links)
	if err != nil {
		return week.Week{}, errors.Wrap(err, "encoding week links")
	}

	stmt, args, err := psql.
		Insert(weekTable).
		Columns(weekColumns[1:]...). // id is serial
		Values(wk.WeekID, wk.Title, wk.StartDate, wk.Description, wk.Notes, links, wk.CreatedAt.UTC(), wk.UpdatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return week.Week{}, errors.Wrap(err, "building week insert")
	}

	if err = repo.db.GetContext(ctx, &wk.ID, stmt, args...); err != nil {
		if isUniqueViolation(err, "week_week_id_key") {
			return week.Week{}, week.ErrWeekIDExists
		}
		return week.Week{}, errors.Wrap(err, "inserting week")
	}
	return wk, nil
}

func (repo *weekRepository) GetWeekByWeekID(ctx context.Context, weekID string) (week.Week, error) {
	stmt, args, err := psql.
		Select(weekColumns...).
		From(weekTable).
		Where(sq.Eq{"week_id": weekID}).
		ToSql()
	if err != nil {
		return week.Week{}, errors.Wrap(err, "building week query")
	}

	var row weekRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return week.Week{}, trapNoRowsErr(err, week.ErrNotFound, "finding week")
	}
	return row.week()
}

func (repo *weekRepository) QueryWeeks(ctx context.Context, filter week.QueryFilter, ordering core.DBOrdering) ([]week.Week, error) {
	query := psql.Select(weekColumns...).From(weekTable)

	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		query = query.Where(sq.Or{
			sq.ILike{"title": val},
			sq.ILike{"description": val},
		})
	}
	query = query.OrderBy(ordering.String())

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building weeks query")
	}

	var rows []weekRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying weeks")
	}

	weeks := make([]week.Week, 0, len(rows))
	for _, row := range rows {
		wk, err := row.week()
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, wk)
	}
	return weeks, nil
}

func (repo *weekRepository) UpdateWeek(ctx context.Context, wk week.Week) (week.Week, error) {
	links, err := json.Marshal(wk.Links)
	if err != nil {
		return week.Week{}, errors.Wrap(err, "encoding week links")
	}

	stmt, args, err := psql.
		Update(weekTable).
		Set("title", wk.Title).
		Set("start_date", wk.StartDate).
		Set("description", wk.Description).
		Set("notes", wk.Notes).
		Set("links", links).
		Set("updated_at", wk.UpdatedAt.UTC()).
		Where(sq.Eq{"week_id": wk.WeekID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return week.Week{}, errors.Wrap(err, "building week update")
	}

	if err = repo.db.GetContext(ctx, &wk.ID, stmt, args...); err != nil {
		return week.Week{}, trapNoRowsErr(err, week.ErrNotFound, "updating week")
	}
	return wk, nil
}

// DeleteWeek removes the week and its comments in one transaction.
func (repo *weekRepository) DeleteWeek(ctx context.Context, weekID string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning week delete tx")
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, args, err := psql.Delete(weekCommentTable).Where(sq.Eq{"week_id": weekID}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building week comments delete")
	}
	if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting week comments")
	}

	stmt, args, err = psql.Delete(weekTable).Where(sq.Eq{"week_id": weekID}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building week delete")
	}
	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting week")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return week.ErrNotFound
	}

	return errors.Wrap(tx.Commit(), "committing week delete tx")
}

func (repo *weekRepository) CreateComment(ctx context.Context, cmt week.Comment) (week.Comment, error) {
	stmt, args, err := psql.
		Insert(weekCommentTable).
		Columns(weekCommentColumns[1:]...). // id is serial
		Values(cmt.WeekID, cmt.UserID, cmt.Comment, cmt.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return week.Comment{}, errors.Wrap(err, "building week comment insert")
	}

	if err = repo.db.GetContext(ctx, &cmt.ID, stmt, args...); err != nil {
		return week.Comment{}, errors.Wrap(err, "inserting week comment")
	}
	return cmt, nil
}

func (repo *weekRepository) GetCommentByID(ctx context.Context, id int) (week.Comment, error) {
	stmt, args, err := psql.
		Select(weekCommentColumns...).
		From(weekCommentTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return week.Comment{}, errors.Wrap(err, "building week comment query")
	}

	var row weekCommentRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return week.Comment{}, trapNoRowsErr(err, week.ErrCommentNotFound, "finding week comment")
	}
	return row.comment(), nil
}

func (repo *weekRepository) QueryCommentsByWeekID(ctx context.Context, weekID string) ([]week.Comment, error) {
	stmt, args, err := psql.
		Select(weekCommentColumns...).
		From(weekCommentTable).
		Where(sq.Eq{"week_id": weekID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building week comments query")
	}

	var rows []weekCommentRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying week comments")
	}

	comments := make([]week.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.comment())
	}
	return comments, nil
}

func (repo *weekRepository) DeleteComment(ctx context.Context, id int) error {
	stmt, args, err := psql.Delete(weekCommentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building week comment delete")
	}

	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting week comment")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return week.ErrCommentNotFound
	}
	return nil
}
