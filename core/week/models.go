package week

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Week is one weekly course-content page. Admin-managed; it carries no
// owner field. WeekID is the client-facing unique key (e.g. "week_1").
type Week struct {
	ID          int         `json:"-"`
	WeekID      string      `json:"week_id"`
	Title       string      `json:"title"`
	StartDate   string      `json:"start_date"` // YYYY-MM-DD
	Description string      `json:"description"`
	Notes       null.String `json:"notes"`
	Links       []string    `json:"links"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

// Comment is a student comment on a Week. Owned by UserID; only the owner
// or an admin may delete it.
type Comment struct {
	ID        int       `json:"id"`
	WeekID    string    `json:"week_id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewWeek contains information needed to create a new Week.
type NewWeek struct {
	WeekID      string   `json:"week_id" validate:"required,alphanum_"`
	Title       string   `json:"title" validate:"required"`
	StartDate   string   `json:"start_date" validate:"required,dateonly"`
	Description string   `json:"description" validate:"required"`
	Notes       string   `json:"notes"`
	Links       []string `json:"links"`
}

func (nw *NewWeek) Validate(validate *validator.Validate) error {
	nw.WeekID = core.CleanString(nw.WeekID, true /* lower */)
	nw.Title = core.Sanitize(nw.Title)
	nw.Description = core.Sanitize(nw.Description)
	nw.Notes = core.CleanString(nw.Notes)
	return validate.Struct(nw)
}

// UpdateWeek defines what information may be provided to modify an existing
// Week. Empty/nil fields are left untouched.
type UpdateWeek struct {
	Title       string   `json:"title"`
	StartDate   string   `json:"start_date" validate:"omitempty,dateonly"`
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
	Links       []string `json:"links"`
}

func (uw *UpdateWeek) IsEmpty() bool {
	return uw.Title == "" && uw.StartDate == "" && uw.Description == "" && uw.Notes == "" && uw.Links == nil
}

func (uw *UpdateWeek) Validate(validate *validator.Validate) error {
	uw.Title = core.Sanitize(uw.Title)
	uw.StartDate = core.CleanString(uw.StartDate)
	uw.Description = core.Sanitize(uw.Description)
	uw.Notes = core.CleanString(uw.Notes)
	if uw.IsEmpty() {
		return core.NewValidationError(errNoFields)
	}
	return validate.Struct(uw)
}

// NewComment contains information needed to comment on a Week.
// The comment body is stored raw; rendering escapes it on output.
type NewComment struct {
	Comment string `json:"comment" validate:"required"`
}

func (nc *NewComment) Validate(validate *validator.Validate) error {
	nc.Comment = core.CleanString(nc.Comment)
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

// OrderSpec is the sort whitelist for week listings.
var OrderSpec = core.OrderSpec{
	Allowed:      []string{"title", "start_date", "created_at"},
	DefaultField: "start_date",
	DefaultAsc:   true,
}
