package resource

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Resource is a downloadable course resource. Admin-managed.
type Resource struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Comment is a student comment on a Resource. Owned by UserID.
type Comment struct {
	ID         int       `json:"id"`
	ResourceID int       `json:"resource_id"`
	UserID     string    `json:"user_id"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

type NewResource struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Link        string `json:"link" validate:"required,url"`
}

func (nr *NewResource) Validate(validate *validator.Validate) error {
	nr.Title = core.Sanitize(nr.Title)
	nr.Description = core.Sanitize(nr.Description)
	nr.Link = core.CleanString(nr.Link)
	return validate.Struct(nr)
}

// UpdateResource defines what information may be provided to modify an
// existing Resource. Empty fields are left untouched.
type UpdateResource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link" validate:"omitempty,url"`
}

func (ur *UpdateResource) IsEmpty() bool {
	return ur.Title == "" && ur.Description == "" && ur.Link == ""
}

func (ur *UpdateResource) Validate(validate *validator.Validate) error {
	ur.Title = core.Sanitize(ur.Title)
	ur.Description = core.Sanitize(ur.Description)
	ur.Link = core.CleanString(ur.Link)
	if ur.IsEmpty() {
		return core.NewValidationError(errNoFields)
	}
	return validate.Struct(ur)
}

// NewComment contains information needed to comment on a Resource.
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

// OrderSpec is the sort whitelist for resource listings.
var OrderSpec = core.OrderSpec{
	Allowed:      []string{"title", "created_at"},
	DefaultField: "created_at",
	DefaultAsc:   true,
}
