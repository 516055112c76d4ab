package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/model"
	q "github.com/iliyamo/restaurante/internal/queue"
	"github.com/iliyamo/restaurante/internal/repository"
)

const msgReservationMissing = "Reserva no encontrada"

func validReservation(rv model.Reservation) string {
	switch {
	case rv.IDMesa <= 0:
		return "id_mesa es requerido"
	case rv.NumeroPersonas <= 0:
		return "numero_personas debe ser mayor que cero"
	}
	if _, err := model.ParseTimestamp(rv.FechaHora, nil); err != nil {
		return "fecha_hora inválida"
	}
	return ""
}

func (h *Handler) ListReservations(c echo.Context) error { return list(c, h.Reservations.List) }

func (h *Handler) GetReservation(c echo.Context) error {
	return show(c, msgReservationMissing, h.Reservations.GetByID)
}

// CreateReservation books a table. A party larger than the table answers
// 400 and nothing is stored.
func (h *Handler) CreateReservation(c echo.Context) error {
	var rv model.Reservation
	if err := c.Bind(&rv); err != nil {
		return invalidBody(c)
	}
	if msg := validReservation(rv); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Reservations.Create(ctx, rv)
	if err != nil {
		return fail(c, err, msgTableMissing)
	}
	h.publish(c, q.ReservationCreated, q.ReservationCreatedData{
		ReservationID: id,
		TableID:       rv.IDMesa,
		PartySize:     rv.NumeroPersonas,
		At:            rv.FechaHora,
	})
	return created(c, "id_reserva", id)
}

func (h *Handler) UpdateReservation(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var rv model.Reservation
	if err := c.Bind(&rv); err != nil {
		return invalidBody(c)
	}
	rv.ID = id
	if msg := validReservation(rv); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Reservations.Update(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return fail(c, err, msgTableMissing)
		}
		return fail(c, err, msgReservationMissing)
	}
	return done(c, "Reserva actualizada")
}

func (h *Handler) DeleteReservation(c echo.Context) error {
	return remove(c, msgReservationMissing, "Reserva eliminada", h.Reservations.Delete)
}
