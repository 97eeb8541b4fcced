package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/forum"
	"github.com/trezcool/darasa/core/resource"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/core/week"
)

type statsApi struct {
	userSvc       user.ServiceInterface
	studentSvc    *student.Service
	weekSvc       *week.Service
	resourceSvc   *resource.Service
	assignmentSvc *assignment.Service
	forumSvc      *forum.Service
}

// Stats holds the admin dashboard row counts.
type Stats struct {
	Users       int `json:"users"`
	Students    int `json:"students"`
	Weeks       int `json:"weeks"`
	Resources   int `json:"resources"`
	Assignments int `json:"assignments"`
	Topics      int `json:"topics"`
}

func registerStatsAPI(g *echo.Group, jwt echo.MiddlewareFunc, api statsApi) {
	g.GET("/stats", api.retrieve, jwt, adminMiddleware())
}

func (api statsApi) retrieve(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	var stats Stats

	users, err := api.userSvc.Query(reqCtx, user.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "counting users")
	}
	stats.Users = len(users)

	students, err := api.studentSvc.Query(reqCtx, student.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "counting students")
	}
	stats.Students = len(students)

	weeks, err := api.weekSvc.Query(reqCtx, week.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "counting weeks")
	}
	stats.Weeks = len(weeks)

	resources, err := api.resourceSvc.Query(reqCtx, resource.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "counting resources")
	}
	stats.Resources = len(resources)

	assignments, err := api.assignmentSvc.Query(reqCtx, assignment.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "counting assignments")
	}
	stats.Assignments = len(assignments)

	topics, err := api.forumSvc.QueryTopics(reqCtx, forum.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "counting topics")
	}
	stats.Topics = len(topics)

	return respondData(ctx, http.StatusOK, stats)
}
