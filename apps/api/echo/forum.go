package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/forum"
)

type forumApi struct {
	svc      *forum.Service
	validate *validator.Validate
}

func registerForumAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *forum.Service, validate *validator.Validate) {
	api := forumApi{svc: svc, validate: validate}

	fg := g.Group("/forum", jwt)

	// topics and replies carry free-text authors; no ownership checks
	fg.GET("/topics", api.queryTopics)
	fg.POST("/topics", api.createTopic)
	fg.GET("/topics/:topic_id", api.retrieveTopic)
	fg.PUT("/topics/:topic_id", api.updateTopic)
	fg.DELETE("/topics/:topic_id", api.destroyTopic)

	fg.GET("/topics/:topic_id/replies", api.queryReplies)
	fg.POST("/topics/:topic_id/replies", api.addReply)
	fg.DELETE("/replies/:reply_id", api.destroyReply)
}

func (api *forumApi) createTopic(ctx echo.Context) error {
	var data forum.NewTopic
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTopic")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.CreateTopic(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusCreated, t)
}

func (api *forumApi) queryTopics(ctx echo.Context) error {
	var filter forum.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return respondData(ctx, http.StatusOK, []forum.Topic{})
	}

	topics, err := api.svc.QueryTopics(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying topics")
	}
	if topics == nil {
		topics = []forum.Topic{}
	}
	return respondData(ctx, http.StatusOK, topics)
}

func (api *forumApi) retrieveTopic(ctx echo.Context) error {
	t, err := api.svc.GetTopic(ctx.Request().Context(), ctx.Param("topic_id"))
	if err != nil {
		return trapNotFound(err, forum.ErrTopicNotFound)
	}
	return respondData(ctx, http.StatusOK, t)
}

func (api *forumApi) updateTopic(ctx echo.Context) error {
	var data forum.UpdateTopic
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTopic")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.UpdateTopic(ctx.Request().Context(), ctx.Param("topic_id"), data)
	if err != nil {
		return trapNotFound(err, forum.ErrTopicNotFound)
	}
	return respondData(ctx, http.StatusOK, t)
}

func (api *forumApi) destroyTopic(ctx echo.Context) error {
	if err := api.svc.DeleteTopic(ctx.Request().Context(), ctx.Param("topic_id")); err != nil {
		return trapNotFound(err, forum.ErrTopicNotFound)
	}
	return respondMessage(ctx, "topic deleted")
}

func (api *forumApi) addReply(ctx echo.Context) error {
	var data forum.NewReply
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReply")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.AddReply(ctx.Request().Context(), ctx.Param("topic_id"), data)
	if err != nil {
		return trapNotFound(err, forum.ErrTopicNotFound)
	}
	return respondData(ctx, http.StatusCreated, r)
}

func (api *forumApi) queryReplies(ctx echo.Context) error {
	replies, err := api.svc.QueryReplies(ctx.Request().Context(), ctx.Param("topic_id"))
	if err != nil {
		return trapNotFound(err, forum.ErrTopicNotFound)
	}
	if replies == nil {
		replies = []forum.Reply{}
	}
	return respondData(ctx, http.StatusOK, replies)
}

func (api *forumApi) destroyReply(ctx echo.Context) error {
	if err := api.svc.DeleteReply(ctx.Request().Context(), ctx.Param("reply_id")); err != nil {
		return trapNotFound(err, forum.ErrReplyNotFound)
	}
	return respondMessage(ctx, "reply deleted")
}
