package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core"
	"github.com/tasku/backend/core/event"
)

type eventApi struct {
	svc      *event.Service
	validate *validator.Validate
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := eventApi{
		svc:      deps.EventSvc,
		validate: deps.Validate,
	}

	eg := g.Group("/events", jwt)
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/urgent", api.queryUrgent)
	eg.GET("/month", api.queryMonth)
	eg.GET("/stats", api.stats)

	dg := eg.Group("/:id")
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/complete", api.complete)
}

// Handlers

func (api *eventApi) create(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}

	evt, warnings, err := api.svc.Create(ctx.Request().Context(), uid, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, EventCreatedResponse{Event: evt, Warnings: warnings})
}

func (api *eventApi) query(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var filter EventFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to EventFilter")
	}
	if err := filter.Validate(api.validate); err != nil {
		return err
	}

	events, err := api.svc.ListByOwner(ctx.Request().Context(), uid, filter.Status, filter.Limit)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) queryUrgent(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	events, err := api.svc.ListUrgent(ctx.Request().Context(), uid)
	if err != nil {
		return errors.Wrap(err, "querying urgent events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) queryMonth(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var period MonthFilter
	if err := ctx.Bind(&period); err != nil {
		return errors.Wrap(err, "binding to MonthFilter")
	}
	if err := api.validate.Struct(&period); err != nil {
		return err
	}

	events, err := api.svc.ListByMonth(ctx.Request().Context(), uid, period.Year, time.Month(period.Month))
	if err != nil {
		return errors.Wrap(err, "querying events by month")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) stats(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.Stats(ctx.Request().Context(), uid)
	if err != nil {
		return errors.Wrap(err, "querying event stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *eventApi) update(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}

	if err := api.svc.Update(ctx.Request().Context(), id, uid, data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "event updated"})
}

func (api *eventApi) destroy(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), id, uid); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *eventApi) complete(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Complete(ctx.Request().Context(), id, uid); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "event completed"})
}

// pathID parses the `:id` route param. A non-numeric id can never match a
// row, so it gets the same opaque 404.
func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

type (
	EventFilter struct {
		Status string `query:"status" validate:"omitempty,oneof=pending completed"`
		Limit  int    `query:"limit"`
	}

	MonthFilter struct {
		Year  int `query:"year" validate:"required,min=2000,max=2100"`
		Month int `query:"month" validate:"required,min=1,max=12"`
	}

	EventCreatedResponse struct {
		Event    event.Event `json:"event"`
		Warnings []string    `json:"warnings,omitempty"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (f *EventFilter) Validate(validate *validator.Validate) error {
	f.Status = core.CleanString(f.Status, true /* lower */)
	return validate.Struct(f)
}
