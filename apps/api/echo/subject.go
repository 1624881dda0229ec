package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core/subject"
)

type subjectApi struct {
	svc *subject.Service
}

func registerSubjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := subjectApi{svc: deps.SubjectSvc}

	sg := g.Group("/subjects", jwt)
	sg.GET("", api.query)
	sg.GET("/mine", api.queryMine)
	sg.POST("/:id/associate", api.associate)

	// catalog management is admin only
	sg.POST("", api.create, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}

	sub, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *subjectApi) query(ctx echo.Context) error {
	subs, err := api.svc.GetAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subs == nil {
		subs = []subject.Subject{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *subjectApi) queryMine(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	subs, err := api.svc.ListByUser(ctx.Request().Context(), uid)
	if err != nil {
		return errors.Wrap(err, "querying user subjects")
	}
	if subs == nil {
		subs = []subject.Subject{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *subjectApi) associate(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	// the subject must exist; associating twice is a no-op
	if _, err := api.svc.GetByID(ctx.Request().Context(), id); err != nil {
		return err
	}
	if err := api.svc.Associate(ctx.Request().Context(), uid, id); err != nil {
		return errors.Wrap(err, "associating subject")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "subject associated"})
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
