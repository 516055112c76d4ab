package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/restaurante/internal/model"
)

type TableRepo struct{ DB *sql.DB }

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{DB: db} }

const tableColumns = "id_mesa, numero_mesa, capacidad, estado, currentGuests"

func scanTable(s interface{ Scan(...any) error }) (model.Table, error) {
	var t model.Table
	err := s.Scan(&t.ID, &t.NumeroMesa, &t.Capacidad, &t.Estado, &t.CurrentGuests)
	return t, err
}

func getTable(ctx context.Context, q querier, id int64) (model.Table, error) {
	t, err := scanTable(q.QueryRowContext(ctx, "SELECT "+tableColumns+" FROM Mesas WHERE id_mesa = ?", id))
	return t, notFound(err)
}

func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+tableColumns+" FROM Mesas ORDER BY numero_mesa")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TableRepo) GetByID(ctx context.Context, id int64) (model.Table, error) {
	return getTable(ctx, r.DB, id)
}

// ValidateTable checks the status/guest-count pairing and normalizes the
// guest count of tables that are not occupied.
func ValidateTable(t *model.Table) error {
	if t.NumeroMesa <= 0 {
		return invalid("numero_mesa must be positive")
	}
	if t.Capacidad <= 0 {
		return invalid("capacidad must be positive")
	}
	if t.Estado == "" {
		t.Estado = model.TableAvailable
	}
	if !t.Estado.Valid() {
		return invalid(fmt.Sprintf("unknown table status %q", t.Estado))
	}
	if t.Estado == model.TableOccupied {
		if t.CurrentGuests <= 0 {
			return invalid("an occupied table needs at least one guest")
		}
		if t.CurrentGuests > t.Capacidad {
			return ErrCapacityExceeded
		}
	}
	t.Normalize()
	return nil
}

func (r *TableRepo) Create(ctx context.Context, t model.Table) (int64, error) {
	if err := ValidateTable(&t); err != nil {
		return 0, err
	}
	return insertID(ctx, r.DB,
		"INSERT INTO Mesas (numero_mesa, capacidad, estado, currentGuests) VALUES (?, ?, ?, ?)",
		t.NumeroMesa, t.Capacidad, t.Estado, t.CurrentGuests)
}

func (r *TableRepo) Update(ctx context.Context, t model.Table) error {
	if err := ValidateTable(&t); err != nil {
		return err
	}
	return execAffecting(ctx, r.DB,
		"UPDATE Mesas SET numero_mesa = ?, capacidad = ?, estado = ?, currentGuests = ? WHERE id_mesa = ?",
		t.NumeroMesa, t.Capacidad, t.Estado, t.CurrentGuests, t.ID)
}

func (r *TableRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, "DELETE FROM Mesas WHERE id_mesa = ?", id)
}

// Assign seats a party at an available table. Nothing is written when the
// party does not fit or the table is not available.
func (r *TableRepo) Assign(ctx context.Context, id int64, guests int) (model.Table, error) {
	var t model.Table
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var err error
		if t, err = getTable(ctx, tx, id); err != nil {
			return err
		}
		if guests <= 0 {
			return invalid("guests must be greater than zero")
		}
		if guests > t.Capacidad {
			return ErrCapacityExceeded
		}
		if t.Estado != model.TableAvailable {
			return ErrTableNotAvailable
		}
		t.Estado, t.CurrentGuests = model.TableOccupied, guests
		return execAffecting(ctx, tx,
			"UPDATE Mesas SET estado = ?, currentGuests = ? WHERE id_mesa = ?", t.Estado, t.CurrentGuests, id)
	})
	return t, err
}

// VacateResult describes what Vacate changed.
type VacateResult struct {
	Table                  model.Table `json:"mesa"`
	CancelledReservationID *int64      `json:"id_reserva_cancelada"`
}

// Vacate frees the table and, when a confirmed reservation for it lies in
// the future, cancels the earliest such reservation. Both writes share a
// transaction.
func (r *TableRepo) Vacate(ctx context.Context, id int64, now time.Time) (VacateResult, error) {
	var res VacateResult
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		t, err := getTable(ctx, tx, id)
		if err != nil {
			return err
		}
		t.Estado, t.CurrentGuests = model.TableAvailable, 0
		if err := execAffecting(ctx, tx,
			"UPDATE Mesas SET estado = ?, currentGuests = 0 WHERE id_mesa = ?", t.Estado, id); err != nil {
			return err
		}
		res.Table = t

		upcoming, err := listReservations(ctx, tx, "WHERE id_mesa = ? AND estado = ?", id, model.ReservationConfirmed)
		if err != nil {
			return err
		}
		next, ok := NextReservation(upcoming, now)
		if !ok {
			return nil
		}
		if err := execAffecting(ctx, tx,
			"UPDATE Reservas SET estado = ? WHERE id_reserva = ?", model.ReservationCancelled, next.ID); err != nil {
			return err
		}
		res.CancelledReservationID = &next.ID
		return nil
	})
	return res, err
}
