package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
)

const (
	assignmentTable        = "assignment"
	assignmentCommentTable = "assignment_comment"
)

var (
	assignmentColumns        = []string{"id", "title", "description", "due_date", "files", "created_at", "updated_at"}
	assignmentCommentColumns = []string{"id", "assignment_id", "author", "text", "created_at"}
)

type assignmentRow struct {
	ID          int       `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	DueDate     string    `db:"due_date"`
	Files       []byte    `db:"files"` // JSON array
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row assignmentRow) assignment() (assignment.Assignment, error) {
	files := make([]string, 0)
	if len(row.Files) > 0 {
		if err := json.Unmarshal(row.Files, &files); err != nil {
			return assignment.Assignment{}, errors.Wrap(err, "decoding assignment files")
		}
	}
	return assignment.Assignment{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		DueDate:     row.DueDate,
		Files:       files,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

type assignmentCommentRow struct {
	ID           int       `db:"id"`
	AssignmentID int       `db:"assignment_id"`
	Author       string    `db:"author"`
	Text         string    `db:"text"`
	CreatedAt    time.Time `db:"created_at"`
}

func (row assignmentCommentRow) comment() assignment.Comment {
	return assignment.Comment{
		ID:           row.ID,
		AssignmentID: row.AssignmentID,
		Author:       row.Author,
		Text:         row.Text,
		CreatedAt:    row.CreatedAt,
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	files, err := json.Marshal(a.Files)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "encoding assignment files")
	}

	stmt, args, err := psql.
		Insert(assignmentTable).
		Columns(assignmentColumns[1:]...). // id is serial
		Values(a.Title, a.Description, a.DueDate, files, a.CreatedAt.UTC(), a.UpdatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "building assignment insert")
	}

	if err = repo.db.GetContext(ctx, &a.ID, stmt, args...); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id int) (assignment.Assignment, error) {
	stmt, args, err := psql.
		Select(assignmentColumns...).
		From(assignmentTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "building assignment query")
	}

	var row assignmentRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "finding assignment")
	}
	return row.assignment()
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.QueryFilter, ordering core.DBOrdering) ([]assignment.Assignment, error) {
	query := psql.Select(assignmentColumns...).From(assignmentTable)

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
		return nil, errors.Wrap(err, "building assignments query")
	}

	var rows []assignmentRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		a, err := row.assignment()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	files, err := json.Marshal(a.Files)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "encoding assignment files")
	}

	stmt, args, err := psql.
		Update(assignmentTable).
		Set("title", a.Title).
		Set("description", a.Description).
		Set("due_date", a.DueDate).
		Set("files", files).
		Set("updated_at", a.UpdatedAt.UTC()).
		Where(sq.Eq{"id": a.ID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "building assignment update")
	}

	if err = repo.db.GetContext(ctx, &a.ID, stmt, args...); err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "updating assignment")
	}
	return a, nil
}

// DeleteAssignment removes the assignment and its comments in one transaction.
func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning assignment delete tx")
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, args, err := psql.Delete(assignmentCommentTable).Where(sq.Eq{"assignment_id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building assignment comments delete")
	}
	if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting assignment comments")
	}

	stmt, args, err = psql.Delete(assignmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building assignment delete")
	}
	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return assignment.ErrNotFound
	}

	return errors.Wrap(tx.Commit(), "committing assignment delete tx")
}

func (repo *assignmentRepository) CreateComment(ctx context.Context, cmt assignment.Comment) (assignment.Comment, error) {
	stmt, args, err := psql.
		Insert(assignmentCommentTable).
		Columns(assignmentCommentColumns[1:]...). // id is serial
		Values(cmt.AssignmentID, cmt.Author, cmt.Text, cmt.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return assignment.Comment{}, errors.Wrap(err, "building assignment comment insert")
	}

	if err = repo.db.GetContext(ctx, &cmt.ID, stmt, args...); err != nil {
		return assignment.Comment{}, errors.Wrap(err, "inserting assignment comment")
	}
	return cmt, nil
}

func (repo *assignmentRepository) GetCommentByID(ctx context.Context, id int) (assignment.Comment, error) {
	stmt, args, err := psql.
		Select(assignmentCommentColumns...).
		From(assignmentCommentTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return assignment.Comment{}, errors.Wrap(err, "building assignment comment query")
	}

	var row assignmentCommentRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return assignment.Comment{}, trapNoRowsErr(err, assignment.ErrCommentNotFound, "finding assignment comment")
	}
	return row.comment(), nil
}

func (repo *assignmentRepository) QueryCommentsByAssignmentID(ctx context.Context, assignmentID int) ([]assignment.Comment, error) {
	stmt, args, err := psql.
		Select(assignmentCommentColumns...).
		From(assignmentCommentTable).
		Where(sq.Eq{"assignment_id": assignmentID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building assignment comments query")
	}

	var rows []assignmentCommentRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying assignment comments")
	}

	comments := make([]assignment.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.comment())
	}
	return comments, nil
}

func (repo *assignmentRepository) DeleteComment(ctx context.Context, id int) error {
	stmt, args, err := psql.Delete(assignmentCommentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building assignment comment delete")
	}

	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting assignment comment")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return assignment.ErrCommentNotFound
	}
	return nil
}
