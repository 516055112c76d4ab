package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurante/internal/model"
)

type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerColumns = "id_cliente, nombre, apellido, email, telefono, fecha_registro"

func scanCustomer(s interface{ Scan(...any) error }) (model.Customer, error) {
	var c model.Customer
	err := s.Scan(&c.ID, &c.Nombre, &c.Apellido, &c.Email, &c.Telefono, &c.FechaRegistro)
	return c, err
}

func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+customerColumns+" FROM Clientes ORDER BY id_cliente")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (model.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM Clientes WHERE id_cliente = ?", id))
	return c, notFound(err)
}

func (r *CustomerRepo) Create(ctx context.Context, c model.Customer) (int64, error) {
	return insertID(ctx, r.DB,
		"INSERT INTO Clientes (nombre, apellido, email, telefono, fecha_registro) VALUES (?, ?, ?, ?, ?)",
		c.Nombre, c.Apellido, c.Email, c.Telefono, c.FechaRegistro)
}

func (r *CustomerRepo) Update(ctx context.Context, c model.Customer) error {
	return execAffecting(ctx, r.DB,
		"UPDATE Clientes SET nombre = ?, apellido = ?, email = ?, telefono = ?, fecha_registro = ? WHERE id_cliente = ?",
		c.Nombre, c.Apellido, c.Email, c.Telefono, c.FechaRegistro, c.ID)
}

func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, "DELETE FROM Clientes WHERE id_cliente = ?", id)
}
