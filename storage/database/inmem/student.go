package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckUniqueness(_ context.Context, studentID, email string, excluded ...student.Student) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	isExcluded := func(std student.Student) bool {
		for _, ex := range excluded {
			if ex.ID == std.ID {
				return true
			}
		}
		return false
	}

	for _, std := range repo.db.students {
		if isExcluded(*std) {
			continue
		}
		if studentID != "" && std.StudentID == studentID {
			return student.ErrStudentIDExists
		}
		if email != "" && std.Email == email {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std.ID = uuid.New().String()
	repo.db.students[std.StudentID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByStudentID(_ context.Context, studentID string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[studentID]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter, ordering core.DBOrdering) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0)
	for _, std := range repo.db.students {
		if !matches(filter.Search, std.Name, std.StudentID, std.Email) {
			continue
		}
		students = append(students, *std)
	}

	key := func(s student.Student) string {
		switch ordering.Field {
		case "student_id":
			return strings.ToLower(s.StudentID)
		case "email":
			return strings.ToLower(s.Email)
		case "created_at":
			return timeKey(s.CreatedAt)
		default:
			return strings.ToLower(s.Name)
		}
	}
	sort.SliceStable(students, func(i, j int) bool {
		return less(key(students[i]), key(students[j]), ordering.Ascending)
	})
	return students, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.students[std.StudentID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	std.ID = orig.ID
	std.CreatedAt = orig.CreatedAt
	repo.db.students[std.StudentID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, studentID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[studentID]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.students, studentID)
	return nil
}
