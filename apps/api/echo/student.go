package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/student"
)

type studentApi struct {
	svc      *student.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service, validate *validator.Validate) {
	api := studentApi{svc: svc, validate: validate}

	sg := g.Group("/students", jwt)

	// the current-password check is the guard here; no admin needed
	sg.POST("/:student_id/password", api.changePassword)

	ag := sg.Group("", adminMiddleware())
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.GET("/:student_id", api.retrieve)
	ag.PUT("/:student_id", api.update)
	ag.DELETE("/:student_id", api.destroy)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondData(ctx, http.StatusCreated, std)
}

func (api *studentApi) query(ctx echo.Context) error {
	var filter student.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return respondData(ctx, http.StatusOK, []student.Student{})
	}

	students, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return respondData(ctx, http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetByStudentID(ctx.Request().Context(), ctx.Param("student_id"))
	if err != nil {
		return trapNotFound(err, student.ErrNotFound)
	}
	return respondData(ctx, http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Update(ctx.Request().Context(), ctx.Param("student_id"), data)
	if err != nil {
		return trapNotFound(err, student.ErrNotFound)
	}
	return respondData(ctx, http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("student_id")); err != nil {
		return trapNotFound(err, student.ErrNotFound)
	}
	return respondMessage(ctx, "student deleted")
}

func (api *studentApi) changePassword(ctx echo.Context) error {
	var data student.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	err := api.svc.ChangePassword(ctx.Request().Context(), ctx.Param("student_id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrInvalidPassword {
			return errWrongPassword
		}
		return trapNotFound(err, student.ErrNotFound)
	}
	return respondMessage(ctx, "password changed")
}
