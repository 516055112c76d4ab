package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurante/internal/model"
)

// EmployeeRepo manages Empleados.
type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

const employeeColumns = "id_empleado, nombre, apellido, id_rol, fecha_contratacion"

func scanEmployee(s interface{ Scan(...any) error }) (model.Employee, error) {
	var e model.Employee
	err := s.Scan(&e.ID, &e.Nombre, &e.Apellido, &e.IDRol, &e.FechaContratacion)
	return e, err
}

func (r *EmployeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+employeeColumns+" FROM Empleados ORDER BY id_empleado")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (model.Employee, error) {
	e, err := scanEmployee(r.DB.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM Empleados WHERE id_empleado = ?", id))
	return e, notFound(err)
}

func (r *EmployeeRepo) Create(ctx context.Context, e model.Employee) (int64, error) {
	return insertID(ctx, r.DB,
		"INSERT INTO Empleados (nombre, apellido, id_rol, fecha_contratacion) VALUES (?, ?, ?, ?)",
		e.Nombre, e.Apellido, e.IDRol, e.FechaContratacion)
}

func (r *EmployeeRepo) Update(ctx context.Context, e model.Employee) error {
	return execAffecting(ctx, r.DB,
		"UPDATE Empleados SET nombre = ?, apellido = ?, id_rol = ?, fecha_contratacion = ? WHERE id_empleado = ?",
		e.Nombre, e.Apellido, e.IDRol, e.FechaContratacion, e.ID)
}

func (r *EmployeeRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, "DELETE FROM Empleados WHERE id_empleado = ?", id)
}

// RoleRepo manages Roles.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id_rol, nombre_rol FROM Roles ORDER BY id_rol")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Role{}
	for rows.Next() {
		var ro model.Role
		if err := rows.Scan(&ro.ID, &ro.NombreRol); err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}

func (r *RoleRepo) GetByID(ctx context.Context, id int64) (model.Role, error) {
	var ro model.Role
	err := r.DB.QueryRowContext(ctx, "SELECT id_rol, nombre_rol FROM Roles WHERE id_rol = ?", id).Scan(&ro.ID, &ro.NombreRol)
	return ro, notFound(err)
}

func (r *RoleRepo) Create(ctx context.Context, ro model.Role) (int64, error) {
	return insertID(ctx, r.DB, "INSERT INTO Roles (nombre_rol) VALUES (?)", ro.NombreRol)
}

func (r *RoleRepo) Update(ctx context.Context, ro model.Role) error {
	return execAffecting(ctx, r.DB, "UPDATE Roles SET nombre_rol = ? WHERE id_rol = ?", ro.NombreRol, ro.ID)
}

func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.DB, "DELETE FROM Roles WHERE id_rol = ?", id)
}
