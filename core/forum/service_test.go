package forum_test

import (
	"context"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/forum"
	"github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/tests"
)

func setup() (*forum.Service, forum.Repository) {
	repo := inmemdb.NewForumRepository(inmemdb.NewDB())
	return forum.NewService(repo), repo
}

func TestService_Topics(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	topic, err := svc.CreateTopic(ctx, forum.NewTopic{
		TopicID: "t1",
		Subject: "Week 1 homework",
		Message: "anyone?",
		Author:  "Hero",
	})
	if err != nil {
		t.Fatalf("CreateTopic() failed, %v", err)
	}

	_, err = svc.CreateTopic(ctx, forum.NewTopic{
		TopicID: "t1",
		Subject: "dup",
		Message: "dup",
		Author:  "King",
	})
	if !core.IsConflict(err) {
		t.Errorf("CreateTopic() error = %v, want a conflict", err)
	}

	updated, err := svc.UpdateTopic(ctx, topic.TopicID, forum.UpdateTopic{Subject: "Week 1 homework (solved)"})
	if err != nil {
		t.Fatalf("UpdateTopic() failed, %v", err)
	}
	if updated.Message != topic.Message {
		t.Error("untouched fields must survive an update")
	}
	if !updated.CreatedAt.Equal(topic.CreatedAt) {
		t.Error("CreatedAt must not change on update")
	}

	if _, err = svc.GetTopic(ctx, "lol"); err != forum.ErrTopicNotFound {
		t.Errorf("GetTopic() error = %v, want %v", err, forum.ErrTopicNotFound)
	}

	if err = svc.DeleteTopic(ctx, topic.TopicID); err != nil {
		t.Fatalf("DeleteTopic() failed, %v", err)
	}
	if _, err = repo.GetTopicByTopicID(ctx, topic.TopicID); err != forum.ErrTopicNotFound {
		t.Errorf("GetTopicByTopicID() error = %v, want %v", err, forum.ErrTopicNotFound)
	}
}

func TestService_Replies(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	topic := testutil.CreateTopic(t, repo, "t1", "Week 1 homework", "Hero")

	if _, err := svc.AddReply(ctx, "lol", forum.NewReply{ReplyID: "r1", Text: "me too", Author: "King"}); err != forum.ErrTopicNotFound {
		t.Errorf("AddReply() error = %v, want %v", err, forum.ErrTopicNotFound)
	}

	reply, err := svc.AddReply(ctx, topic.TopicID, forum.NewReply{ReplyID: "r1", Text: "me too", Author: "King"})
	if err != nil {
		t.Fatalf("AddReply() failed, %v", err)
	}

	_, err = svc.AddReply(ctx, topic.TopicID, forum.NewReply{ReplyID: "r1", Text: "again", Author: "King"})
	if !core.IsConflict(err) {
		t.Errorf("AddReply() error = %v, want a conflict", err)
	}

	replies, err := svc.QueryReplies(ctx, topic.TopicID)
	if err != nil {
		t.Fatalf("QueryReplies() failed, %v", err)
	}
	if len(replies) != 1 || replies[0].ReplyID != reply.ReplyID {
		t.Errorf("unexpected result: %+v", replies)
	}

	// deleting the topic removes its replies too
	if err = svc.DeleteTopic(ctx, topic.TopicID); err != nil {
		t.Fatalf("DeleteTopic() failed, %v", err)
	}
	if _, err = repo.GetReplyByReplyID(ctx, reply.ReplyID); err != forum.ErrReplyNotFound {
		t.Errorf("GetReplyByReplyID() error = %v, want %v", err, forum.ErrReplyNotFound)
	}
}
