package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core/notification"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := notificationApi{svc: deps.NotificationSvc}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.query)
	ng.POST("/:id/read", api.markRead)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	uid, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var filter NotificationFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to NotificationFilter")
	}

	ntfs, err := api.svc.ListPending(ctx.Request().Context(), uid, filter.Limit)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if ntfs == nil {
		ntfs = []notification.PendingNotification{}
	}
	return ctx.JSON(http.StatusOK, ntfs)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.MarkRead(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "notification read"})
}

type NotificationFilter struct {
	Limit int `query:"limit"`
}
