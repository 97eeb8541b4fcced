package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Student is a registry record. StudentID is the client-facing unique key
// (a university number); Email is unique as well. The password hash is
// never serialized.
type Student struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

type NewStudent struct {
	StudentID string `json:"student_id" validate:"required,alphanum_"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.StudentID = core.CleanString(ns.StudentID, true /* lower */)
	ns.Name = core.Sanitize(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Empty fields are left untouched.
type UpdateStudent struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (us *UpdateStudent) IsEmpty() bool {
	return us.Name == "" && us.Email == ""
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.Sanitize(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	if us.IsEmpty() {
		return core.NewValidationError(errNoFields)
	}
	return validate.Struct(us)
}

// ChangePassword verifies the current password before the new one is written.
type ChangePassword struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (cp *ChangePassword) Validate(validate *validator.Validate) error {
	return validate.Struct(cp)
}

type QueryFilter struct {
	Search string `query:"search"`
	Sort   string `query:"sort"`
	Order  string `query:"order"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func (qf QueryFilter) Ordering() core.DBOrdering {
	return OrderSpec.Resolve(qf.Sort, qf.Order)
}

// OrderSpec is the sort whitelist for student listings.
var OrderSpec = core.OrderSpec{
	Allowed:      []string{"name", "student_id", "email", "created_at"},
	DefaultField: "name",
	DefaultAsc:   true,
}
