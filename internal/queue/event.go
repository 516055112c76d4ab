// Package queue defines the domain events exchanged over the message
// broker and the consumer that records them.
package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types.
const (
	OrderCreated       = "pedido.creado"
	OrderStatusChanged = "pedido.estado_cambiado"
	OrderDeleted       = "pedido.eliminado"
	TableAssigned      = "mesa.asignada"
	TableVacated       = "mesa.liberada"
	ReservationCreated = "reserva.creada"
)

// Event is the envelope written to the broker. Data holds one of the
// payload structs below.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt string          `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a time-ordered id.
func NewEvent(eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         id.String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Data:       raw,
	}, nil
}

type OrderCreatedData struct {
	OrderID int64           `json:"id_pedido"`
	TableID *int64          `json:"id_mesa,omitempty"`
	Total   decimal.Decimal `json:"total"`
	Status  string          `json:"estado"`
}

type OrderStatusChangedData struct {
	OrderID int64  `json:"id_pedido"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type OrderDeletedData struct {
	OrderID int64 `json:"id_pedido"`
}

type TableAssignedData struct {
	TableID int64 `json:"id_mesa"`
	Guests  int   `json:"guests"`
}

type TableVacatedData struct {
	TableID                int64  `json:"id_mesa"`
	CancelledReservationID *int64 `json:"id_reserva_cancelada"`
}

type ReservationCreatedData struct {
	ReservationID int64  `json:"id_reserva"`
	TableID       int64  `json:"id_mesa"`
	PartySize     int    `json:"numero_personas"`
	At            string `json:"fecha_hora"`
}
