package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Assignment is a graded course assignment. Admin-managed.
type Assignment struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"` // YYYY-MM-DD
	Files       []string  `json:"files"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Comment is a discussion comment on an Assignment. It carries a free-text
// author with no referential integrity and no ownership check on delete;
// that asymmetry with week/resource comments is deliberate.
type Comment struct {
	ID           int       `json:"id"`
	AssignmentID int       `json:"assignment_id"`
	Author       string    `json:"author"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

type NewAssignment struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	DueDate     string   `json:"due_date" validate:"required,dateonly"`
	Files       []string `json:"files"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.Sanitize(na.Title)
	na.Description = core.Sanitize(na.Description)
	na.DueDate = core.CleanString(na.DueDate)
	return validate.Struct(na)
}

// UpdateAssignment defines what information may be provided to modify an
// existing Assignment. Empty/nil fields are left untouched.
type UpdateAssignment struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date" validate:"omitempty,dateonly"`
	Files       []string `json:"files"`
}

func (ua *UpdateAssignment) IsEmpty() bool {
	return ua.Title == "" && ua.Description == "" && ua.DueDate == "" && ua.Files == nil
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Title = core.Sanitize(ua.Title)
	ua.Description = core.Sanitize(ua.Description)
	ua.DueDate = core.CleanString(ua.DueDate)
	if ua.IsEmpty() {
		return core.NewValidationError(errNoFields)
	}
	return validate.Struct(ua)
}

// NewComment contains information needed to comment on an Assignment.
type NewComment struct {
	Author string `json:"author" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

func (nc *NewComment) Validate(validate *validator.Validate) error {
	nc.Author = core.Sanitize(nc.Author)
	nc.Text = core.CleanString(nc.Text)
	return validate.Struct(nc)
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

// OrderSpec is the sort whitelist for assignment listings.
var OrderSpec = core.OrderSpec{
	Allowed:      []string{"title", "due_date", "created_at"},
	DefaultField: "created_at",
	DefaultAsc:   true,
}
