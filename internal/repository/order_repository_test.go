package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurante/internal/model"
	"github.com/iliyamo/restaurante/internal/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestOrderCreateComputesTotalFromItems(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewOrderRepo(db)

	mesa := f.Table4
	id, err := repo.Create(ctx, model.Order{
		IDMesa: &mesa,
		Fecha:  "2024-05-06T13:00:00Z",
		Total:  dec("999"), // ignored: items win
		Estado: model.OrderPending,
	}, []NewOrderItem{
		{IDProducto: f.Tacos, Cantidad: 2},                                 // snapshot 12.5
		{IDProducto: f.Agua, Cantidad: 3, PrecioUnitario: decPtr("1.75")}, // explicit price
	})
	require.NoError(t, err)

	o, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, dec("30.25").Equal(o.Total), "total %s", o.Total)

	items, err := repo.Items(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, dec("12.5").Equal(items[0].PrecioUnitario))
}

func TestOrderCreateRollsBackOnBadItem(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewOrderRepo(db)

	_, err := repo.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderPending}, []NewOrderItem{
		{IDProducto: f.Tacos, Cantidad: 1},
		{IDProducto: f.Tacos, Cantidad: 0},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestUnknownProductIsInvalidEvenWithPrice(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	orders := NewOrderRepo(db)
	items := NewOrderItemRepo(db)

	_, err := orders.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderPending}, []NewOrderItem{
		{IDProducto: 9999, Cantidad: 1, PrecioUnitario: decPtr("5")},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	id, err := orders.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderPending}, nil)
	require.NoError(t, err)
	_, err = items.Create(ctx, NewOrderItem{IDPedido: id, IDProducto: 9999, Cantidad: 1, PrecioUnitario: decPtr("5")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	itemID, err := items.Create(ctx, NewOrderItem{IDPedido: id, IDProducto: f.Tacos, Cantidad: 1})
	require.NoError(t, err)
	err = items.Update(ctx, itemID, NewOrderItem{IDPedido: id, IDProducto: 9999, Cantidad: 1, PrecioUnitario: decPtr("5")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	err = items.Update(ctx, itemID, NewOrderItem{IDPedido: 999, IDProducto: f.Tacos, Cantidad: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrderUpdateStatusLeavesOtherFields(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewOrderRepo(db)

	mesa, cliente, empleado := f.Table4, f.Customer, f.Employee
	id, err := repo.Create(ctx, model.Order{
		IDMesa: &mesa, IDCliente: &cliente, IDEmpleado: &empleado,
		Fecha: "2024-05-06T13:00:00Z", Total: dec("45.5"), Estado: model.OrderPending,
	}, nil)
	require.NoError(t, err)
	before, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	prev, err := repo.UpdateStatus(ctx, id, model.OrderPreparing, false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, prev)

	after, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPreparing, after.Estado)
	after.Estado = before.Estado
	assert.Equal(t, before, after)
}

func TestOrderUpdateStatusPermissiveAndStrict(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewOrderRepo(db)

	id, err := repo.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderCancelled}, nil)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, id, model.OrderPending, true)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, err, ErrConflict)
	o, _ := repo.GetByID(ctx, id)
	assert.Equal(t, model.OrderCancelled, o.Estado)

	// permissive mode accepts any known value
	_, err = repo.UpdateStatus(ctx, id, model.OrderPending, false)
	require.NoError(t, err)
	o, _ = repo.GetByID(ctx, id)
	assert.Equal(t, model.OrderPending, o.Estado)

	_, err = repo.UpdateStatus(ctx, id, model.OrderStatus("servido"), false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = repo.UpdateStatus(ctx, 999, model.OrderReady, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderFullUpdateRecomputesWhenItemsExist(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewOrderRepo(db)

	withItems, err := repo.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderPending},
		[]NewOrderItem{{IDProducto: f.Tacos, Cantidad: 1}})
	require.NoError(t, err)
	bare, err := repo.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderPending}, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, model.Order{ID: withItems, Fecha: "2024-05-07", Total: dec("1"), Estado: model.OrderReady}))
	require.NoError(t, repo.Update(ctx, model.Order{ID: bare, Fecha: "2024-05-07", Total: dec("7.5"), Estado: model.OrderReady}))

	o, _ := repo.GetByID(ctx, withItems)
	assert.True(t, dec("12.5").Equal(o.Total))
	assert.Equal(t, "2024-05-07", o.Fecha)
	o, _ = repo.GetByID(ctx, bare)
	assert.True(t, dec("7.5").Equal(o.Total))

	assert.ErrorIs(t, repo.Update(ctx, model.Order{ID: 999, Fecha: "x", Estado: model.OrderReady}), ErrNotFound)
}

func TestOrderDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewOrderRepo(db)

	id, err := repo.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderDelivered},
		[]NewOrderItem{{IDProducto: f.Tacos, Cantidad: 2}})
	require.NoError(t, err)
	_, err = NewPaymentRepo(db).Create(ctx, model.Payment{IDPedido: id, IDMetodoPago: &f.Method, Monto: dec("25"), Fecha: "2024-05-06"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	var n int
	require.NoError(t, db.QueryRow("SELECT (SELECT COUNT(*) FROM Pagos) + (SELECT COUNT(*) FROM Detalles_Pedidos)").Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)
}

func TestOrderItemsKeepTotalInSync(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	orders := NewOrderRepo(db)
	items := NewOrderItemRepo(db)

	a, err := orders.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderPending}, nil)
	require.NoError(t, err)
	b, err := orders.Create(ctx, model.Order{Fecha: "2024-05-06", Estado: model.OrderPending}, nil)
	require.NoError(t, err)

	itemID, err := items.Create(ctx, NewOrderItem{IDPedido: a, IDProducto: f.Tacos, Cantidad: 2})
	require.NoError(t, err)
	_, err = items.Create(ctx, NewOrderItem{IDPedido: a, IDProducto: f.Agua, Cantidad: 1})
	require.NoError(t, err)
	total := func(id int64) string {
		o, err := orders.GetByID(ctx, id)
		require.NoError(t, err)
		return o.Total.String()
	}
	assert.Equal(t, "27", total(a))

	// moving the item to order b refreshes both totals
	require.NoError(t, items.Update(ctx, itemID, NewOrderItem{IDPedido: b, IDProducto: f.Tacos, Cantidad: 1, PrecioUnitario: decPtr("10")}))
	assert.Equal(t, "2", total(a))
	assert.Equal(t, "10", total(b))

	require.NoError(t, items.Delete(ctx, itemID))
	assert.Equal(t, "0", total(b))

	_, err = items.Create(ctx, NewOrderItem{IDPedido: 999, IDProducto: f.Tacos, Cantidad: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, items.Delete(ctx, itemID), ErrNotFound)
}
