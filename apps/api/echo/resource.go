package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/resource"
)

type resourceApi struct {
	svc      *resource.Service
	validate *validator.Validate
}

func registerResourceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *resource.Service, validate *validator.Validate) {
	api := resourceApi{svc: svc, validate: validate}

	rg := g.Group("/resources", jwt)
	rg.GET("", api.query)
	rg.POST("", api.create, adminMiddleware())
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update, adminMiddleware())
	rg.DELETE("/:id", api.destroy, adminMiddleware())

	rg.GET("/:id/comments", api.queryComments)
	rg.POST("/:id/comments", api.addComment)
	rg.DELETE("/comments/:id", api.destroyComment)
}

func (api *resourceApi) resourceID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

func (api *resourceApi) create(ctx echo.Context) error {
	var data resource.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusCreated, res)
}

func (api *resourceApi) query(ctx echo.Context) error {
	var filter resource.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return respondData(ctx, http.StatusOK, []resource.Resource{})
	}

	resources, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	if resources == nil {
		resources = []resource.Resource{}
	}
	return respondData(ctx, http.StatusOK, resources)
}

func (api *resourceApi) retrieve(ctx echo.Context) error {
	id, err := api.resourceID(ctx)
	if err != nil {
		return err
	}

	res, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return trapNotFound(err, resource.ErrNotFound)
	}
	return respondData(ctx, http.StatusOK, res)
}

func (api *resourceApi) update(ctx echo.Context) error {
	id, err := api.resourceID(ctx)
	if err != nil {
		return err
	}

	var data resource.UpdateResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResource")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return trapNotFound(err, resource.ErrNotFound)
	}
	return respondData(ctx, http.StatusOK, res)
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	id, err := api.resourceID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return trapNotFound(err, resource.ErrNotFound)
	}
	return respondMessage(ctx, "resource deleted")
}

func (api *resourceApi) addComment(ctx echo.Context) error {
	id, err := api.resourceID(ctx)
	if err != nil {
		return err
	}

	var data resource.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cmt, err := api.svc.AddComment(ctx.Request().Context(), id, getContextActor(ctx), data)
	if err != nil {
		return trapNotFound(err, resource.ErrNotFound)
	}
	return respondData(ctx, http.StatusCreated, cmt)
}

func (api *resourceApi) queryComments(ctx echo.Context) error {
	id, err := api.resourceID(ctx)
	if err != nil {
		return err
	}

	comments, err := api.svc.QueryComments(ctx.Request().Context(), id)
	if err != nil {
		return trapNotFound(err, resource.ErrNotFound)
	}
	if comments == nil {
		comments = []resource.Comment{}
	}
	return respondData(ctx, http.StatusOK, comments)
}

func (api *resourceApi) destroyComment(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	// a denied delete is a silent no-op; the response does not reveal it
	if err := api.svc.DeleteComment(ctx.Request().Context(), id, getContextActor(ctx)); err != nil {
		return trapNotFound(err, resource.ErrCommentNotFound)
	}
	return respondMessage(ctx, "comment deleted")
}
