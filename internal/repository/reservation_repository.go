package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/restaurante/internal/model"
)

type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationColumns = "id_reserva, id_cliente, id_mesa, fecha_hora, numero_personas, estado"

func listReservations(ctx context.Context, q querier, where string, args ...any) ([]model.Reservation, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+reservationColumns+" FROM Reservas "+where+" ORDER BY id_reserva", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Reservation{}
	for rows.Next() {
		var rv model.Reservation
		if err := rows.Scan(&rv.ID, &rv.IDCliente, &rv.IDMesa, &rv.FechaHora, &rv.NumeroPersonas, &rv.Estado); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// NextReservation picks the confirmed reservation with the earliest
// fecha_hora strictly after now. Rows with unparseable dates are skipped.
func NextReservation(rs []model.Reservation, now time.Time) (model.Reservation, bool) {
	var (
		best     model.Reservation
		bestTime time.Time
		found    bool
	)
	for _, rv := range rs {
		if rv.Estado != model.ReservationConfirmed {
			continue
		}
		at, err := model.ParseTimestamp(rv.FechaHora, now.Location())
		if err != nil || !at.After(now) {
			continue
		}
		if !found || at.Before(bestTime) {
			best, bestTime, found = rv, at, true
		}
	}
	return best, found
}

func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	return listReservations(ctx, r.DB, "")
}

func (r *ReservationRepo) GetByID(ctx context.Context, id int64) (model.Reservation, error) {
	rs, err := listReservations(ctx, r.DB, "WHERE id_reserva = ?", id)
	if err != nil {
		return model.Reservation{}, err
	}
	if len(rs) == 0 {
		return model.Reservation{}, ErrNotFound
	}
	return rs[0], nil
}

// checkParty loads the reservation's table and verifies the party fits.
func checkParty(ctx context.Context, q querier, rv *model.Reservation) (model.Table, error) {
	if rv.Estado == "" {
		rv.Estado = model.ReservationConfirmed
	}
	if !rv.Estado.Valid() {
		return model.Table{}, invalid(fmt.Sprintf("unknown reservation status %q", rv.Estado))
	}
	if rv.FechaHora == "" {
		return model.Table{}, invalid("fecha_hora is required")
	}
	if rv.NumeroPersonas <= 0 {
		return model.Table{}, invalid("numero_personas must be greater than zero")
	}
	t, err := getTable(ctx, q, rv.IDMesa)
	if errors.Is(err, ErrNotFound) {
		return model.Table{}, ErrTableNotFound
	}
	if err != nil {
		return model.Table{}, err
	}
	if rv.NumeroPersonas > t.Capacidad {
		return model.Table{}, ErrCapacityExceeded
	}
	return t, nil
}

// Create inserts a reservation after checking the party fits at the
// table. A confirmed reservation on an available table marks the table
// reserved in the same transaction; an occupied table keeps its guests.
func (r *ReservationRepo) Create(ctx context.Context, rv model.Reservation) (int64, error) {
	var id int64
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		t, err := checkParty(ctx, tx, &rv)
		if err != nil {
			return err
		}
		id, err = insertID(ctx, tx,
			"INSERT INTO Reservas (id_cliente, id_mesa, fecha_hora, numero_personas, estado) VALUES (?, ?, ?, ?, ?)",
			rv.IDCliente, rv.IDMesa, rv.FechaHora, rv.NumeroPersonas, rv.Estado)
		if err != nil {
			return err
		}
		if rv.Estado == model.ReservationConfirmed && t.Estado == model.TableAvailable {
			return execAffecting(ctx, tx,
				"UPDATE Mesas SET estado = ?, currentGuests = 0 WHERE id_mesa = ?", model.TableReserved, t.ID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces the reservation, re-checking capacity against the
// (possibly different) table.
func (r *ReservationRepo) Update(ctx context.Context, rv model.Reservation) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := checkParty(ctx, tx, &rv); err != nil {
			return err
		}
		return execAffecting(ctx, tx,
			"UPDATE Reservas SET id_cliente = ?, id_mesa = ?, fecha_hora = ?, numero_personas = ?, estado = ? WHERE id_reserva = ?",
			rv.IDCliente, rv.IDMesa, rv.FechaHora, rv.NumeroPersonas, rv.Estado, rv.ID)
	})
}

func (r *ReservationRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, "DELETE FROM Reservas WHERE id_reserva = ?", id)
}
