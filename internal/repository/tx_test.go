package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDeleteRollsBackWhenLineItemsFail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM Pagos WHERE id_pedido = ?")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM Detalles_Pedidos WHERE id_pedido = ?")).
		WithArgs(int64(7)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = NewOrderRepo(db).Delete(context.Background(), 7)
	assert.EqualError(t, err, "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderDeleteMissingRowRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM Pagos").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM Detalles_Pedidos").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM Pedidos").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = NewOrderRepo(db).Delete(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacateRollsBackWhenCancelFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_mesa, numero_mesa, capacidad, estado, currentGuests FROM Mesas").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id_mesa", "numero_mesa", "capacidad", "estado", "currentGuests"}).
			AddRow(3, 3, 4, "reservada", 0))
	mock.ExpectExec("UPDATE Mesas SET estado").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM Reservas").
		WillReturnRows(sqlmock.NewRows([]string{"id_reserva", "id_cliente", "id_mesa", "fecha_hora", "numero_personas", "estado"}).
			AddRow(9, nil, 3, "2999-01-01T20:00:00Z", 2, "confirmada"))
	mock.ExpectExec("UPDATE Reservas SET estado").
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	_, err = NewTableRepo(db).Vacate(context.Background(), 3, timeNowForTest())
	assert.EqualError(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryReassignRollsBackWhenDeleteFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	target := int64(2)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM Categorias_Producto").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	mock.ExpectQuery("SELECT 1 FROM Categorias_Producto").WithArgs(target).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("UPDATE Productos SET id_categoria").WithArgs(target, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM Categorias_Producto").
		WillReturnError(errors.New("FOREIGN KEY constraint failed"))
	mock.ExpectRollback()

	err = NewCategoryRepo(db).Delete(context.Background(), 1, &target)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func timeNowForTest() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) }
