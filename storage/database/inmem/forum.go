package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/forum"
)

type forumRepository struct {
	db *DB
}

var _ forum.Repository = (*forumRepository)(nil)

func NewForumRepository(db *DB) *forumRepository {
	return &forumRepository{db: db}
}

func (repo *forumRepository) CheckTopicIDUniqueness(_ context.Context, topicID string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.topics[topicID]; ok {
		return forum.ErrTopicIDExists
	}
	return nil
}

func (repo *forumRepository) CreateTopic(_ context.Context, t forum.Topic) (forum.Topic, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.topics[t.TopicID] = &t
	return t, nil
}

func (repo *forumRepository) GetTopicByTopicID(_ context.Context, topicID string) (forum.Topic, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.topics[topicID]; ok {
		return *t, nil
	}
	return forum.Topic{}, forum.ErrTopicNotFound
}

func (repo *forumRepository) QueryTopics(_ context.Context, filter forum.QueryFilter, ordering core.DBOrdering) ([]forum.Topic, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	topics := make([]forum.Topic, 0)
	for _, t := range repo.db.topics {
		if !matches(filter.Search, t.Subject, t.Message, t.Author) {
			continue
		}
		topics = append(topics, *t)
	}

	key := func(t forum.Topic) string {
		switch ordering.Field {
		case "subject":
			return strings.ToLower(t.Subject)
		case "author":
			return strings.ToLower(t.Author)
		default:
			return timeKey(t.CreatedAt)
		}
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return less(key(topics[i]), key(topics[j]), ordering.Ascending)
	})
	return topics, nil
}

func (repo *forumRepository) UpdateTopic(_ context.Context, t forum.Topic) (forum.Topic, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.topics[t.TopicID]
	if !ok {
		return forum.Topic{}, forum.ErrTopicNotFound
	}
	t.CreatedAt = orig.CreatedAt
	repo.db.topics[t.TopicID] = &t
	return t, nil
}

func (repo *forumRepository) DeleteTopic(_ context.Context, topicID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.topics[topicID]; !ok {
		return forum.ErrTopicNotFound
	}
	// children first; all under one lock
	for rid, r := range repo.db.replies {
		if r.TopicID == topicID {
			delete(repo.db.replies, rid)
		}
	}
	delete(repo.db.topics, topicID)
	return nil
}

func (repo *forumRepository) CheckReplyIDUniqueness(_ context.Context, replyID string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.replies[replyID]; ok {
		return forum.ErrReplyIDExists
	}
	return nil
}

func (repo *forumRepository) CreateReply(_ context.Context, r forum.Reply) (forum.Reply, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.replies[r.ReplyID] = &r
	return r, nil
}

func (repo *forumRepository) GetReplyByReplyID(_ context.Context, replyID string) (forum.Reply, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.replies[replyID]; ok {
		return *r, nil
	}
	return forum.Reply{}, forum.ErrReplyNotFound
}

func (repo *forumRepository) QueryRepliesByTopicID(_ context.Context, topicID string) ([]forum.Reply, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	replies := make([]forum.Reply, 0)
	for _, r := range repo.db.replies {
		if r.TopicID == topicID {
			replies = append(replies, *r)
		}
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies, nil
}

func (repo *forumRepository) DeleteReply(_ context.Context, replyID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.replies[replyID]; !ok {
		return forum.ErrReplyNotFound
	}
	delete(repo.db.replies, replyID)
	return nil
}
