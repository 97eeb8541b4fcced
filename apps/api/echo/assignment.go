package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/assignment"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assignment.Service, validate *validator.Validate) {
	api := assignmentApi{svc: svc, validate: validate}

	ag := g.Group("/assignments", jwt)
	ag.GET("", api.query)
	ag.POST("", api.create, adminMiddleware())
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, adminMiddleware())
	ag.DELETE("/:id", api.destroy, adminMiddleware())

	// comments carry a free-text author and no ownership; any authed
	// caller may add or delete
	ag.GET("/:id/comments", api.queryComments)
	ag.POST("/:id/comments", api.addComment)
	ag.DELETE("/comments/:id", api.destroyComment)
}

func (api *assignmentApi) assignmentID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusCreated, a)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	var filter assignment.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return respondData(ctx, http.StatusOK, []assignment.Assignment{})
	}

	assignments, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return respondData(ctx, http.StatusOK, assignments)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	id, err := api.assignmentID(ctx)
	if err != nil {
		return err
	}

	a, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return trapNotFound(err, assignment.ErrNotFound)
	}
	return respondData(ctx, http.StatusOK, a)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	id, err := api.assignmentID(ctx)
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return trapNotFound(err, assignment.ErrNotFound)
	}
	return respondData(ctx, http.StatusOK, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	id, err := api.assignmentID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return trapNotFound(err, assignment.ErrNotFound)
	}
	return respondMessage(ctx, "assignment deleted")
}

func (api *assignmentApi) addComment(ctx echo.Context) error {
	id, err := api.assignmentID(ctx)
	if err != nil {
		return err
	}

	var data assignment.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cmt, err := api.svc.AddComment(ctx.Request().Context(), id, data)
	if err != nil {
		return trapNotFound(err, assignment.ErrNotFound)
	}
	return respondData(ctx, http.StatusCreated, cmt)
}

func (api *assignmentApi) queryComments(ctx echo.Context) error {
	id, err := api.assignmentID(ctx)
	if err != nil {
		return err
	}

	comments, err := api.svc.QueryComments(ctx.Request().Context(), id)
	if err != nil {
		return trapNotFound(err, assignment.ErrNotFound)
	}
	if comments == nil {
		comments = []assignment.Comment{}
	}
	return respondData(ctx, http.StatusOK, comments)
}

func (api *assignmentApi) destroyComment(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	if err := api.svc.DeleteComment(ctx.Request().Context(), id); err != nil {
		return trapNotFound(err, assignment.ErrCommentNotFound)
	}
	return respondMessage(ctx, "comment deleted")
}
