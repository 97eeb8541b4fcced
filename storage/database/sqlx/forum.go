package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/forum"
)

const (
	topicTable = "topic"
	replyTable = "reply"
)

var (
	topicColumns = []string{"topic_id", "subject", "message", "author", "created_at", "updated_at"}
	replyColumns = []string{"reply_id", "topic_id", "text", "author", "created_at"}
)

type topicRow struct {
	TopicID   string    `db:"topic_id"`
	Subject   string    `db:"subject"`
	Message   string    `db:"message"`
	Author    string    `db:"author"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row topicRow) topic() forum.Topic {
	return forum.Topic{
		TopicID:   row.TopicID,
		Subject:   row.Subject,
		Message:   row.Message,
		Author:    row.Author,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type replyRow struct {
	ReplyID   string    `db:"reply_id"`
	TopicID   string    `db:"topic_id"`
	Text      string    `db:"text"`
	Author    string    `db:"author"`
	CreatedAt time.Time `db:"created_at"`
}

func (row replyRow) reply() forum.Reply {
	return forum.Reply{
		ReplyID:   row.ReplyID,
		TopicID:   row.TopicID,
		Text:      row.Text,
		Author:    row.Author,
		CreatedAt: row.CreatedAt,
	}
}

type forumRepository struct {
	db *sqlx.DB
}

var _ forum.Repository = (*forumRepository)(nil) // interface compliance check

func NewForumRepository(db *sqlx.DB) *forumRepository {
	return &forumRepository{db: db}
}

func (repo *forumRepository) CheckTopicIDUniqueness(ctx context.Context, topicID string) error {
	stmt, args, err := psql.
		Select("COUNT(*)").
		From(topicTable).
		Where(sq.Eq{"topic_id": topicID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building topic uniqueness query")
	}

	var cnt int
	if err = repo.db.GetContext(ctx, &cnt, stmt, args...); err != nil {
		return errors.Wrap(err, "checking topic uniqueness")
	}
	if cnt > 0 {
		return forum.ErrTopicIDExists
	}
	return nil
}

func (repo *forumRepository) CreateTopic(ctx context.Context, t forum.Topic) (forum.Topic, error) {
	stmt, args, err := psql.
		Insert(topicTable).
		Columns(topicColumns...).
		Values(t.TopicID, t.Subject, t.Message, t.Author, t.CreatedAt.UTC(), t.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return forum.Topic{}, errors.Wrap(err, "building topic insert")
	}

	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err, "topic_pkey") {
			return forum.Topic{}, forum.ErrTopicIDExists
		}
		return forum.Topic{}, errors.Wrap(err, "inserting topic")
	}
	return t, nil
}

func (repo *forumRepository) GetTopicByTopicID(ctx context.Context, topicID string) (forum.Topic, error) {
	stmt, args, err := psql.
		Select(topicColumns...).
		From(topicTable).
		Where(sq.Eq{"topic_id": topicID}).
		ToSql()
	if err != nil {
		return forum.Topic{}, errors.Wrap(err, "building topic query")
	}

	var row topicRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return forum.Topic{}, trapNoRowsErr(err, forum.ErrTopicNotFound, "finding topic")
	}
	return row.topic(), nil
}

func (repo *forumRepository) QueryTopics(ctx context.Context, filter forum.QueryFilter, ordering core.DBOrdering) ([]forum.Topic, error) {
	query := psql.Select(topicColumns...).From(topicTable)

	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		query = query.Where(sq.Or{
			sq.ILike{"subject": val},
			sq.ILike{"message": val},
			sq.ILike{"author": val},
		})
	}
	query = query.OrderBy(ordering.String())

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building topics query")
	}

	var rows []topicRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying topics")
	}

	topics := make([]forum.Topic, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, row.topic())
	}
	return topics, nil
}

func (repo *forumRepository) UpdateTopic(ctx context.Context, t forum.Topic) (forum.Topic, error) {
	stmt, args, err := psql.
		Update(topicTable).
		Set("subject", t.Subject).
		Set("message", t.Message).
		Set("updated_at", t.UpdatedAt.UTC()).
		Where(sq.Eq{"topic_id": t.TopicID}).
		ToSql()
	if err != nil {
		return forum.Topic{}, errors.Wrap(err, "building topic update")
	}

	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return forum.Topic{}, errors.Wrap(err, "updating topic")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return forum.Topic{}, forum.ErrTopicNotFound
	}
	return t, nil
}

// DeleteTopic removes the topic and its replies in one transaction.
func (repo *forumRepository) DeleteTopic(ctx context.Context, topicID string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning topic delete tx")
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, args, err := psql.Delete(replyTable).Where(sq.Eq{"topic_id": topicID}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building topic replies delete")
	}
	if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting topic replies")
	}

	stmt, args, err = psql.Delete(topicTable).Where(sq.Eq{"topic_id": topicID}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building topic delete")
	}
	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting topic")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return forum.ErrTopicNotFound
	}

	return errors.Wrap(tx.Commit(), "committing topic delete tx")
}

func (repo *forumRepository) CheckReplyIDUniqueness(ctx context.Context, replyID string) error {
	stmt, args, err := psql.
		Select("COUNT(*)").
		From(replyTable).
		Where(sq.Eq{"reply_id": replyID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building reply uniqueness query")
	}

	var cnt int
	if err = repo.db.GetContext(ctx, &cnt, stmt, args...); err != nil {
		return errors.Wrap(err, "checking reply uniqueness")
	}
	if cnt > 0 {
		return forum.ErrReplyIDExists
	}
	return nil
}

func (repo *forumRepository) CreateReply(ctx context.Context, r forum.Reply) (forum.Reply, error) {
	stmt, args, err := psql.
		Insert(replyTable).
		Columns(replyColumns...).
		Values(r.ReplyID, r.TopicID, r.Text, r.Author, r.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return forum.Reply{}, errors.Wrap(err, "building reply insert")
	}

	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err, "reply_pkey") {
			return forum.Reply{}, forum.ErrReplyIDExists
		}
		return forum.Reply{}, errors.Wrap(err, "inserting reply")
	}
	return r, nil
}

func (repo *forumRepository) GetReplyByReplyID(ctx context.Context, replyID string) (forum.Reply, error) {
	stmt, args, err := psql.
		Select(replyColumns...).
		From(replyTable).
		Where(sq.Eq{"reply_id": replyID}).
		ToSql()
	if err != nil {
		return forum.Reply{}, errors.Wrap(err, "building reply query")
	}

	var row replyRow
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return forum.Reply{}, trapNoRowsErr(err, forum.ErrReplyNotFound, "finding reply")
	}
	return row.reply(), nil
}

func (repo *forumRepository) QueryRepliesByTopicID(ctx context.Context, topicID string) ([]forum.Reply, error) {
	stmt, args, err := psql.
		Select(replyColumns...).
		From(replyTable).
		Where(sq.Eq{"topic_id": topicID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building replies query")
	}

	var rows []replyRow
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying replies")
	}

	replies := make([]forum.Reply, 0, len(rows))
	for _, row := range rows {
		replies = append(replies, row.reply())
	}
	return replies, nil
}

func (repo *forumRepository) DeleteReply(ctx context.Context, replyID string) error {
	stmt, args, err := psql.Delete(replyTable).Where(sq.Eq{"reply_id": replyID}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building reply delete")
	}

	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(err, "deleting reply")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return forum.ErrReplyNotFound
	}
	return nil
}
