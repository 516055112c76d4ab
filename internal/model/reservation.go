package model

// ReservationStatus is stored in Reservas.estado.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmada"
	ReservationCancelled ReservationStatus = "cancelada"
)

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	return s == ReservationConfirmed || s == ReservationCancelled
}

// Reservation is a row of `Reservas`.
type Reservation struct {
	ID             int64             `json:"id_reserva"`
	IDCliente      *int64            `json:"id_cliente"`
	IDMesa         int64             `json:"id_mesa"`
	FechaHora      string            `json:"fecha_hora"`
	NumeroPersonas int               `json:"numero_personas"`
	Estado         ReservationStatus `json:"estado"`
}
