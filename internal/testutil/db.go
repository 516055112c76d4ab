// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurante/internal/database"
)

// NewDB opens a migrated SQLite database in a temp dir. It is closed when
// the test ends.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))
	return db
}

// MustExec runs a statement and returns the inserted id.
func MustExec(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(query, args...)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// Fixture ids created by Seed.
type Fixture struct {
	Category int64
	Tacos    int64 // price 12.50, stock 20
	Agua     int64 // price 2.00, stock 4
	Table4   int64 // mesa 1, capacity 4, available
	Table2   int64 // mesa 2, capacity 2, available
	Customer int64
	Employee int64
	Method   int64
}

// Seed inserts a small restaurant: one category, two products, two tables,
// one customer, one employee and one payment method.
func Seed(t *testing.T, db *sql.DB) Fixture {
	t.Helper()
	var f Fixture
	f.Category = MustExec(t, db, "INSERT INTO Categorias_Producto (nombre) VALUES ('Platos fuertes')")
	f.Tacos = MustExec(t, db, "INSERT INTO Productos (nombre, descripcion, precio, stock, id_categoria) VALUES ('Tacos', 'al pastor', 12.5, 20, ?)", f.Category)
	f.Agua = MustExec(t, db, "INSERT INTO Productos (nombre, precio, stock, id_categoria) VALUES ('Agua', 2, 4, ?)", f.Category)
	f.Table4 = MustExec(t, db, "INSERT INTO Mesas (numero_mesa, capacidad) VALUES (1, 4)")
	f.Table2 = MustExec(t, db, "INSERT INTO Mesas (numero_mesa, capacidad) VALUES (2, 2)")
	f.Customer = MustExec(t, db, "INSERT INTO Clientes (nombre, apellido) VALUES ('Lucía', 'Pérez')")
	roleID := MustExec(t, db, "INSERT INTO Roles (nombre_rol) VALUES ('Mesero')")
	f.Employee = MustExec(t, db, "INSERT INTO Empleados (nombre, id_rol) VALUES ('Carlos', ?)", roleID)
	f.Method = MustExec(t, db, "INSERT INTO Metodos_Pago (nombre) VALUES ('Efectivo')")
	return f
}
