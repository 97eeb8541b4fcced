package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/resource"
)

const (
	resourceTable        = "resource"
	resourceCommentTable = "resource_comment"
)

var (
	resourceColumns        = []string{"id", "title", "description", "link", "created_at", "updated_at"}
	resourceCommentColumns = []string{"id", "resource_id", "user_id", "comment", "created_at"}
)

type resourceRow struct {
	ID          int       `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Link        string    `db:"link"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row resourceRow) resource() resource.Resource {
	return resource.Resource{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Link:        row.Link,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type resourceCommentRow struct {
	ID         int       `db:"id"`
	ResourceID int       `db:"resource_id"`
	UserID     string    `db:"user_id"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}

func (row resourceCommentRow) comment() resource.Comment {
	return resource.Comment{
		ID:         row.ID,
		ResourceID: row.ResourceID,
		UserID:     row.UserID,
		Comment:    row.Comment,
		CreatedAt:  row.CreatedAt,
	}
}

type resourceRepository struct {
	db *sqlx.DB
}

var _ resource.Repository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(db *sqlx.DB) *resourceRepository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	stmt, args, err := psql.
		Insert(resourceTable).
		Columns(resourceColumns[1:]...). // id is serial
		Values(res.Title, res.Description, res.Link, res.CreatedAt.UTC(), res.UpdatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "building resource insert")
	}

	if err = repo.db.GetContext(ctx, &res.ID, stmt, args...); err != nil {
		return resource.Resource{}, errors.Wrap(err, "inserting resource")
	}
	return res, nil
}

func (repo *resourceRepository) GetResourceByID(ctx context.Context, id int) (resource.Resource, error) {
	stmt, args, err := psql.
		Select(resourceColumns...).
		From(resourceTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "building resource query")
	}

	var row resourceRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return resource.Resource{}, trapNoRowsErr(err, resource.ErrNotFound, "finding resource")
	}
	return row.resource(), nil
}

func (repo *resourceRepository) QueryResources(ctx context.Context, filter resource.QueryFilter, ordering core.DBOrdering) ([]resource.Resource, error) {
	query := psql.Select(resourceColumns...).From(resourceTable)

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
		return nil, errors.Wrap(err, "building resources query")
	}

	var rows []resourceRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}

	resources := make([]resource.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.resource())
	}
	return resources, nil
}

func (repo *resourceRepository) UpdateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	stmt, args, err := psql.
		Update(resourceTable).
		Set("title", res.Title).
		Set("description", res.Description).
		Set("link", res.Link).
		Set("updated_at", res.UpdatedAt.UTC()).
		Where(sq.Eq{"id": res.ID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "building resource update")
	}

	if err = repo.db.GetContext(ctx, &res.ID, stmt, args...); err != nil {
		return resource.Resource{}, trapNoRowsErr(err, resource.ErrNotFound, "updating resource")
	}
	return res, nil
}

// DeleteResource removes the resource and its comments in one transaction.
func (repo *resourceRepository) DeleteResource(ctx context.Context, id int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning resource delete tx")
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, args, err := psql.Delete(resourceCommentTable).Where(sq.Eq{"resource_id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building resource comments delete")
	}
	if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting resource comments")
	}

	stmt, args, err = psql.Delete(resourceTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building resource delete")
	}
	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return resource.ErrNotFound
	}

	return errors.Wrap(tx.Commit(), "committing resource delete tx")
}

func (repo *resourceRepository) CreateComment(ctx context.Context, cmt resource.Comment) (resource.Comment, error) {
	stmt, args, err := psql.
		Insert(resourceCommentTable).
		Columns(resourceCommentColumns[1:]...). // id is serial
		Values(cmt.ResourceID, cmt.UserID, cmt.Comment, cmt.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return resource.Comment{}, errors.Wrap(err, "building resource comment insert")
	}

	if err = repo.db.GetContext(ctx, &cmt.ID, stmt, args...); err != nil {
		return resource.Comment{}, errors.Wrap(err, "inserting resource comment")
	}
	return cmt, nil
}

func (repo *resourceRepository) GetCommentByID(ctx context.Context, id int) (resource.Comment, error) {
	stmt, args, err := psql.
		Select(resourceCommentColumns...).
		From(resourceCommentTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return resource.Comment{}, errors.Wrap(err, "building resource comment query")
	}

	var row resourceCommentRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return resource.Comment{}, trapNoRowsErr(err, resource.ErrCommentNotFound, "finding resource comment")
	}
	return row.comment(), nil
}

func (repo *resourceRepository) QueryCommentsByResourceID(ctx context.Context, resourceID int) ([]resource.Comment, error) {
	stmt, args, err := psql.
		Select(resourceCommentColumns...).
		From(resourceCommentTable).
		Where(sq.Eq{"resource_id": resourceID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building resource comments query")
	}

	var rows []resourceCommentRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying resource comments")
	}

	comments := make([]resource.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.comment())
	}
	return comments, nil
}

func (repo *resourceRepository) DeleteComment(ctx context.Context, id int) error {
	stmt, args, err := psql.Delete(resourceCommentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building resource comment delete")
	}

	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting resource comment")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return resource.ErrCommentNotFound
	}
	return nil
}
