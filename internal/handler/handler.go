// Package handler contains the echo handlers of the /api routes. Handlers
// bind and validate the request, call a repository with a bounded context
// and translate repository errors into status codes.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/config"
	q "github.com/iliyamo/restaurante/internal/queue"
	"github.com/iliyamo/restaurante/internal/repository"
	queue_publisher "github.com/iliyamo/restaurante/internal/service"
)

const (
	dbTimeout      = 5 * time.Second
	publishTimeout = 3 * time.Second
)

// Handler serves every entity route. Repositories share one *sql.DB.
type Handler struct {
	Cfg    config.Config
	Log    *slog.Logger
	Events queue_publisher.Publisher
	Now    func() time.Time

	Products       *repository.ProductRepo
	Categories     *repository.CategoryRepo
	Orders         *repository.OrderRepo
	OrderItems     *repository.OrderItemRepo
	Customers      *repository.CustomerRepo
	Tables         *repository.TableRepo
	Employees      *repository.EmployeeRepo
	Roles          *repository.RoleRepo
	Payments       *repository.PaymentRepo
	PaymentMethods *repository.PaymentMethodRepo
	Reservations   *repository.ReservationRepo
}

func New(cfg config.Config, db *sql.DB, events queue_publisher.Publisher, log *slog.Logger) *Handler {
	if events == nil {
		events = queue_publisher.Noop{}
	}
	return &Handler{
		Cfg:            cfg,
		Log:            log,
		Events:         events,
		Now:            time.Now,
		Products:       repository.NewProductRepo(db),
		Categories:     repository.NewCategoryRepo(db),
		Orders:         repository.NewOrderRepo(db),
		OrderItems:     repository.NewOrderItemRepo(db),
		Customers:      repository.NewCustomerRepo(db),
		Tables:         repository.NewTableRepo(db),
		Employees:      repository.NewEmployeeRepo(db),
		Roles:          repository.NewRoleRepo(db),
		Payments:       repository.NewPaymentRepo(db),
		PaymentMethods: repository.NewPaymentMethodRepo(db),
		Reservations:   repository.NewReservationRepo(db),
	}
}

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func invalidID(c echo.Context) error { return badRequest(c, "id inválido") }

func invalidBody(c echo.Context) error { return badRequest(c, "cuerpo de la solicitud inválido") }

// fail writes the response for a repository error. missing is the 404
// message for the addressed entity.
func fail(c echo.Context, err error, missing string) error {
	var inUse *repository.CategoryInUseError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": missing})
	case errors.As(err, &inUse):
		return c.JSON(http.StatusConflict, echo.Map{
			"message":   "La categoría tiene productos asociados; indique reasignar_a",
			"productos": inUse.Products,
		})
	case errors.Is(err, repository.ErrInvalidInput):
		return badRequest(c, err.Error())
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}

// created answers a POST with the new id under both "id" and the
// entity's own key.
func created(c echo.Context, key string, id int64) error {
	return c.JSON(http.StatusCreated, echo.Map{"id": id, key: id})
}

func done(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

func list[T any](c echo.Context, fetch func(context.Context) ([]T, error)) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	rows, err := fetch(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, rows)
}

func show[T any](c echo.Context, missing string, fetch func(context.Context, int64) (T, error)) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	row, err := fetch(ctx, id)
	if err != nil {
		return fail(c, err, missing)
	}
	return c.JSON(http.StatusOK, row)
}

func remove(c echo.Context, missing, msg string, del func(context.Context, int64) error) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := del(ctx, id); err != nil {
		return fail(c, err, missing)
	}
	return done(c, msg)
}

// publish sends a domain event after a committed write. It outlives the
// request context and only logs failures.
func (h *Handler) publish(c echo.Context, eventType string, data any) {
	ev, err := q.NewEvent(eventType, data)
	if err != nil {
		h.Log.Error("build event", "type", eventType, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Log.Warn("publish event failed", "type", eventType, "id", ev.ID, "error", err)
	}
}
