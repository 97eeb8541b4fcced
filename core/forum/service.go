package forum

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrTopicNotFound = errors.New("topic not found")
	ErrReplyNotFound = errors.New("reply not found")
	ErrTopicIDExists = errors.New("a topic with this topic_id already exists")
	ErrReplyIDExists = errors.New("a reply with this reply_id already exists")

	errNoFields = errors.New("no fields provided for update")
)

type (
	Repository interface {
		CheckTopicIDUniqueness(ctx context.Context, topicID string) error
		CreateTopic(ctx context.Context, t Topic) (Topic, error)
		GetTopicByTopicID(ctx context.Context, topicID string) (Topic, error)
		// QueryTopics applies QueryFilter.Search as a case-insensitive match
		// on one of Topic.Subject, Topic.Message or Topic.Author.
		QueryTopics(ctx context.Context, filter QueryFilter, ordering core.DBOrdering) ([]Topic, error)
		UpdateTopic(ctx context.Context, t Topic) (Topic, error)
		// DeleteTopic removes the topic and its replies as one atomic unit.
		DeleteTopic(ctx context.Context, topicID string) error

		CheckReplyIDUniqueness(ctx context.Context, replyID string) error
		CreateReply(ctx context.Context, r Reply) (Reply, error)
		GetReplyByReplyID(ctx context.Context, replyID string) (Reply, error)
		QueryRepliesByTopicID(ctx context.Context, topicID string) ([]Reply, error)
		DeleteReply(ctx context.Context, replyID string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateTopic(ctx context.Context, nt NewTopic) (Topic, error) {
	if err := svc.repo.CheckTopicIDUniqueness(ctx, nt.TopicID); err != nil {
		if errors.Cause(err) == ErrTopicIDExists {
			return Topic{}, core.NewConflictError(err, "topic_id")
		}
		return Topic{}, err
	}

	now := time.Now().UTC()
	t := Topic{
		TopicID:   nt.TopicID,
		Subject:   nt.Subject,
		Message:   nt.Message,
		Author:    nt.Author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateTopic(ctx, t)
}

func (svc *Service) QueryTopics(ctx context.Context, filter QueryFilter) ([]Topic, error) {
	filter.Clean()
	return svc.repo.QueryTopics(ctx, filter, filter.Ordering())
}

func (svc *Service) GetTopic(ctx context.Context, topicID string) (Topic, error) {
	return svc.repo.GetTopicByTopicID(ctx, core.CleanString(topicID, true /* lower */))
}

func (svc *Service) UpdateTopic(ctx context.Context, topicID string, ut UpdateTopic) (Topic, error) {
	t, err := svc.repo.GetTopicByTopicID(ctx, topicID)
	if err != nil {
		return Topic{}, err
	}

	if ut.Subject != "" {
		t.Subject = ut.Subject
	}
	if ut.Message != "" {
		t.Message = ut.Message
	}
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTopic(ctx, t)
}

// DeleteTopic removes the topic and cascades to its replies.
func (svc *Service) DeleteTopic(ctx context.Context, topicID string) error {
	if _, err := svc.repo.GetTopicByTopicID(ctx, topicID); err != nil {
		return err
	}
	return svc.repo.DeleteTopic(ctx, topicID)
}

func (svc *Service) AddReply(ctx context.Context, topicID string, nr NewReply) (Reply, error) {
	if _, err := svc.repo.GetTopicByTopicID(ctx, topicID); err != nil {
		return Reply{}, err
	}
	if err := svc.repo.CheckReplyIDUniqueness(ctx, nr.ReplyID); err != nil {
		if errors.Cause(err) == ErrReplyIDExists {
			return Reply{}, core.NewConflictError(err, "reply_id")
		}
		return Reply{}, err
	}

	r := Reply{
		ReplyID:   nr.ReplyID,
		TopicID:   topicID,
		Text:      nr.Text,
		Author:    nr.Author,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateReply(ctx, r)
}

func (svc *Service) QueryReplies(ctx context.Context, topicID string) ([]Reply, error) {
	return svc.repo.QueryRepliesByTopicID(ctx, topicID)
}

// DeleteReply removes a reply. Any caller may delete any reply; replies
// carry a free-text author and no ownership.
func (svc *Service) DeleteReply(ctx context.Context, replyID string) error {
	if _, err := svc.repo.GetReplyByReplyID(ctx, replyID); err != nil {
		return err
	}
	return svc.repo.DeleteReply(ctx, replyID)
}
