package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentIDExists = errors.New("a student with this student_id already exists")
	ErrEmailExists     = errors.New("a student with this email already exists")
	ErrInvalidPassword = errors.New("current password is incorrect")

	errNoFields = errors.New("no fields provided for update")
)

type (
	Repository interface {
		// CheckUniqueness reports ErrStudentIDExists/ErrEmailExists when
		// another row (not in excluded) already holds the value.
		CheckUniqueness(ctx context.Context, studentID, email string, excluded ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByStudentID(ctx context.Context, studentID string) (Student, error)
		// QueryStudents applies QueryFilter.Search as a case-insensitive
		// match on one of Student.Name, Student.StudentID or Student.Email.
		QueryStudents(ctx context.Context, filter QueryFilter, ordering core.DBOrdering) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, studentID string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, studentID, email string, excl ...Student) error {
	if err := svc.repo.CheckUniqueness(ctx, studentID, email, excl...); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrStudentIDExists:
			field = "student_id"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewConflictError(err, field)
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := svc.checkUniqueness(ctx, ns.StudentID, ns.Email); err != nil {
		return Student{}, err
	}

	now := time.Now().UTC()
	std := Student{
		StudentID: ns.StudentID,
		Name:      ns.Name,
		Email:     ns.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.QueryStudents(ctx, filter, filter.Ordering())
}

func (svc *Service) GetByStudentID(ctx context.Context, studentID string) (Student, error) {
	return svc.repo.GetStudentByStudentID(ctx, core.CleanString(studentID, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, studentID string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByStudentID(ctx, studentID)
	if err != nil {
		return Student{}, err
	}

	if us.Name != "" {
		std.Name = us.Name
	}
	if us.Email != "" {
		if err := svc.checkUniqueness(ctx, "", us.Email, std); err != nil {
			return Student{}, err
		}
		std.Email = us.Email
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, studentID string) error {
	if _, err := svc.repo.GetStudentByStudentID(ctx, studentID); err != nil {
		return err
	}
	return svc.repo.DeleteStudent(ctx, studentID)
}

// ChangePassword verifies the current password against the row as it is
// right now (re-read in this request) before writing the new hash.
// A failed verification reports ErrInvalidPassword.
func (svc *Service) ChangePassword(ctx context.Context, studentID string, cp ChangePassword) error {
	std, err := svc.repo.GetStudentByStudentID(ctx, studentID)
	if err != nil {
		return err
	}
	if err := std.CheckPassword(cp.CurrentPassword); err != nil {
		return ErrInvalidPassword
	}
	if err := std.SetPassword(cp.NewPassword); err != nil {
		return errors.Wrap(err, "setting password")
	}
	std.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateStudent(ctx, std)
	return err
}
