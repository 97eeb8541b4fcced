package forum

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Topic is a discussion board thread. TopicID is the client-facing unique
// key. Author is free text with no referential integrity.
type Topic struct {
	TopicID   string    `json:"topic_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Reply is a threaded reply to a Topic. ReplyID is unique per table.
type Reply struct {
	ReplyID   string    `json:"reply_id"`
	TopicID   string    `json:"topic_id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewTopic struct {
	TopicID string `json:"topic_id" validate:"required,alphanum_"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
	Author  string `json:"author" validate:"required"`
}

func (nt *NewTopic) Validate(validate *validator.Validate) error {
	nt.TopicID = core.CleanString(nt.TopicID, true /* lower */)
	nt.Subject = core.Sanitize(nt.Subject)
	nt.Message = core.CleanString(nt.Message)
	nt.Author = core.Sanitize(nt.Author)
	return validate.Struct(nt)
}

// UpdateTopic defines what information may be provided to modify an existing
// Topic. Empty fields are left untouched.
type UpdateTopic struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (ut *UpdateTopic) IsEmpty() bool {
	return ut.Subject == "" && ut.Message == ""
}

func (ut *UpdateTopic) Validate(validate *validator.Validate) error {
	ut.Subject = core.Sanitize(ut.Subject)
	ut.Message = core.CleanString(ut.Message)
	if ut.IsEmpty() {
		return core.NewValidationError(errNoFields)
	}
	return validate.Struct(ut)
}

type NewReply struct {
	ReplyID string `json:"reply_id" validate:"required,alphanum_"`
	Text    string `json:"text" validate:"required"`
	Author  string `json:"author" validate:"required"`
}

func (nr *NewReply) Validate(validate *validator.Validate) error {
	nr.ReplyID = core.CleanString(nr.ReplyID, true /* lower */)
	nr.Text = core.CleanString(nr.Text)
	nr.Author = core.Sanitize(nr.Author)
	return validate.Struct(nr)
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

// OrderSpec is the sort whitelist for topic listings. Newest first by default.
var OrderSpec = core.OrderSpec{
	Allowed:      []string{"subject", "author", "created_at"},
	DefaultField: "created_at",
	DefaultAsc:   false,
}
