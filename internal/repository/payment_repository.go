package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurante/internal/model"
)

// PaymentRepo manages Pagos.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentColumns = "id_pago, id_pedido, id_metodo_pago, monto, fecha"

func scanPayment(s interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	err := s.Scan(&p.ID, &p.IDPedido, &p.IDMetodoPago, &p.Monto, &p.Fecha)
	return p, err
}

func (r *PaymentRepo) List(ctx context.Context) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+paymentColumns+" FROM Pagos ORDER BY id_pago")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM Pagos WHERE id_pago = ?", id))
	return p, notFound(err)
}

func (r *PaymentRepo) Create(ctx context.Context, p model.Payment) (int64, error) {
	return insertID(ctx, r.DB,
		"INSERT INTO Pagos (id_pedido, id_metodo_pago, monto, fecha) VALUES (?, ?, ?, ?)",
		p.IDPedido, p.IDMetodoPago, p.Monto, p.Fecha)
}

func (r *PaymentRepo) Update(ctx context.Context, p model.Payment) error {
	return execAffecting(ctx, r.DB,
		"UPDATE Pagos SET id_pedido = ?, id_metodo_pago = ?, monto = ?, fecha = ? WHERE id_pago = ?",
		p.IDPedido, p.IDMetodoPago, p.Monto, p.Fecha, p.ID)
}

func (r *PaymentRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, "DELETE FROM Pagos WHERE id_pago = ?", id)
}

// PaymentMethodRepo manages Metodos_Pago.
type PaymentMethodRepo struct{ DB *sql.DB }

func NewPaymentMethodRepo(db *sql.DB) *PaymentMethodRepo { return &PaymentMethodRepo{DB: db} }

func (r *PaymentMethodRepo) List(ctx context.Context) ([]model.PaymentMethod, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id_metodo_pago, nombre FROM Metodos_Pago ORDER BY id_metodo_pago")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.PaymentMethod{}
	for rows.Next() {
		var m model.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Nombre); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PaymentMethodRepo) GetByID(ctx context.Context, id int64) (model.PaymentMethod, error) {
	var m model.PaymentMethod
	err := r.DB.QueryRowContext(ctx,
		"SELECT id_metodo_pago, nombre FROM Metodos_Pago WHERE id_metodo_pago = ?", id).Scan(&m.ID, &m.Nombre)
	return m, notFound(err)
}

func (r *PaymentMethodRepo) Create(ctx context.Context, m model.PaymentMethod) (int64, error) {
	return insertID(ctx, r.DB, "INSERT INTO Metodos_Pago (nombre) VALUES (?)", m.Nombre)
}

func (r *PaymentMethodRepo) Update(ctx context.Context, m model.PaymentMethod) error {
	return execAffecting(ctx, r.DB, "UPDATE Metodos_Pago SET nombre = ? WHERE id_metodo_pago = ?", m.Nombre, m.ID)
}

func (r *PaymentMethodRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, "DELETE FROM Metodos_Pago WHERE id_metodo_pago = ?", id)
}
