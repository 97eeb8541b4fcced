package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/week"
)

type weekApi struct {
	svc      *week.Service
	validate *validator.Validate
}

func registerWeekAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *week.Service, validate *validator.Validate) {
	api := weekApi{svc: svc, validate: validate}

	wg := g.Group("/weeks", jwt)
	wg.GET("", api.query)
	wg.POST("", api.create, adminMiddleware())
	wg.GET("/:week_id", api.retrieve)
	wg.PUT("/:week_id", api.update, adminMiddleware())
	wg.DELETE("/:week_id", api.destroy, adminMiddleware())

	wg.GET("/:week_id/comments", api.queryComments)
	wg.POST("/:week_id/comments", api.addComment)
	wg.DELETE("/comments/:id", api.destroyComment)
}

func (api *weekApi) create(ctx echo.Context) error {
	var data week.NewWeek
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWeek")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	wk, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusCreated, wk)
}

func (api *weekApi) query(ctx echo.Context) error {
	var filter week.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return respondData(ctx, http.StatusOK, []week.Week{})
	}

	weeks, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying weeks")
	}
	if weeks == nil {
		weeks = []week.Week{}
	}
	return respondData(ctx, http.StatusOK, weeks)
}

func (api *weekApi) retrieve(ctx echo.Context) error {
	wk, err := api.svc.GetByWeekID(ctx.Request().Context(), ctx.Param("week_id"))
	if err != nil {
		return trapNotFound(err, week.ErrNotFound)
	}
	return respondData(ctx, http.StatusOK, wk)
}

func (api *weekApi) update(ctx echo.Context) error {
	var data week.UpdateWeek
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWeek")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	wk, err := api.svc.Update(ctx.Request().Context(), ctx.Param("week_id"), data)
	if err != nil {
		return trapNotFound(err, week.ErrNotFound)
	}
	return respondData(ctx, http.StatusOK, wk)
}

func (api *weekApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("week_id")); err != nil {
		return trapNotFound(err, week.ErrNotFound)
	}
	return respondMessage(ctx, "week deleted")
}

func (api *weekApi) addComment(ctx echo.Context) error {
	var data week.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cmt, err := api.svc.AddComment(ctx.Request().Context(), ctx.Param("week_id"), getContextActor(ctx), data)
	if err != nil {
		return trapNotFound(err, week.ErrNotFound)
	}
	return respondData(ctx, http.StatusCreated, cmt)
}

func (api *weekApi) queryComments(ctx echo.Context) error {
	comments, err := api.svc.QueryComments(ctx.Request().Context(), ctx.Param("week_id"))
	if err != nil {
		return trapNotFound(err, week.ErrNotFound)
	}
	if comments == nil {
		comments = []week.Comment{}
	}
	return respondData(ctx, http.StatusOK, comments)
}

func (api *weekApi) destroyComment(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	// a denied delete is a silent no-op; the response does not reveal it
	if err := api.svc.DeleteComment(ctx.Request().Context(), id, getContextActor(ctx)); err != nil {
		return trapNotFound(err, week.ErrCommentNotFound)
	}
	return respondMessage(ctx, "comment deleted")
}
