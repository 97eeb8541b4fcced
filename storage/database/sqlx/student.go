package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/student"
)

const studentTable = "student"

var studentColumns = []string{"id", "student_id", "name", "email", "password_hash", "created_at", "updated_at"}

type studentRow struct {
	ID           string    `db:"id"`
	StudentID    string    `db:"student_id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row studentRow) student() student.Student {
	return student.Student{
		ID:           row.ID,
		StudentID:    row.StudentID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckUniqueness(ctx context.Context, studentID, email string, excluded ...student.Student) error {
	query := psql.
		Select("student_id", "email").
		From(studentTable).
		Where(sq.Or{sq.Eq{"student_id": studentID}, sq.Eq{"email": email}})
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, std := range excluded {
			ids = append(ids, std.ID)
		}
		query = query.Where(sq.NotEq{"id": ids})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "building student uniqueness query")
	}

	var rows []struct {
		StudentID string `db:"student_id"`
		Email     string `db:"email"`
	}
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	for _, row := range rows {
		if studentID != "" && row.StudentID == studentID {
			return student.ErrStudentIDExists
		}
		if email != "" && row.Email == email {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()

	stmt, args, err := psql.
		Insert(studentTable).
		Columns(studentColumns...).
		Values(std.ID, std.StudentID, std.Name, std.Email, std.PasswordHash, std.CreatedAt.UTC(), std.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student insert")
	}

	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		switch {
		case isUniqueViolation(err, "student_student_id_key"):
			return student.Student{}, student.ErrStudentIDExists
		case isUniqueViolation(err, "student_email_key"):
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByStudentID(ctx context.Context, studentID string) (student.Student, error) {
	stmt, args, err := psql.
		Select(studentColumns...).
		From(studentTable).
		Where(sq.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student query")
	}

	var row studentRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student")
	}
	return row.student(), nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, ordering core.DBOrdering) ([]student.Student, error) {
	query := psql.Select(studentColumns...).From(studentTable)

	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		query = query.Where(sq.Or{
			sq.ILike{"name": val},
			sq.ILike{"student_id": val},
			sq.ILike{"email": val},
		})
	}
	query = query.OrderBy(ordering.String())

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building students query")
	}

	var rows []studentRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.student())
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	// only save set fields
	query := psql.Update(studentTable).Where(sq.Eq{"id": std.ID})
	if std.Name != "" {
		query = query.Set("name", std.Name)
	}
	if std.Email != "" {
		query = query.Set("email", std.Email)
	}
	if std.PasswordHash != nil {
		query = query.Set("password_hash", std.PasswordHash)
	}
	if !std.UpdatedAt.IsZero() {
		query = query.Set("updated_at", std.UpdatedAt.UTC())
	}

	stmt, args, err := query.Suffix("RETURNING " + columnList(studentColumns)).ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student update")
	}

	var row studentRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		if isUniqueViolation(err, "student_email_key") {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "updating student")
	}
	return row.student(), nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, studentID string) error {
	stmt, args, err := psql.Delete(studentTable).Where(sq.Eq{"student_id": studentID}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building student delete")
	}

	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return student.ErrNotFound
	}
	return nil
}
