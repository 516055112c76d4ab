package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurante/internal/config"
	q "github.com/iliyamo/restaurante/internal/queue"
	"github.com/iliyamo/restaurante/internal/router"
	"github.com/iliyamo/restaurante/internal/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []q.Event
}

func (r *recorder) Publish(_ context.Context, ev q.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type env struct {
	e      *echo.Echo
	db     *sql.DB
	fx     testutil.Fixture
	events *recorder
}

func setup(t *testing.T, tweak ...func(*config.Config)) env {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := config.Config{
		JWTSecret:     "secret",
		AccessTTLMin:  60,
		BcryptCost:    4,
		ReorderLevel:  10,
		PublicBaseURL: "http://localhost:3000",
	}
	for _, f := range tweak {
		f(&cfg)
	}
	rec := &recorder{}
	e := router.NewEcho(router.Deps{
		Cfg:    cfg,
		DB:     db,
		Events: rec,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return env{e: e, db: db, fx: testutil.Seed(t, db), events: rec}
}

func (v env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var m []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func api(format string, args ...any) string {
	return "/api" + fmt.Sprintf(format, args...)
}

func TestProductCRUD(t *testing.T) {
	v := setup(t)

	rec := v.do(t, http.MethodPost, "/api/productos", map[string]any{
		"nombre": "Pozole", "precio": 95.5, "stock": 12, "id_categoria": v.fx.Category,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	id := int64(body["id"].(float64))
	assert.Equal(t, body["id"], body["id_producto"])

	rec = v.do(t, http.MethodGet, api("/productos/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "Pozole", got["nombre"])
	assert.Equal(t, 95.5, got["precio"])

	rec = v.do(t, http.MethodPut, api("/productos/%d", id), map[string]any{
		"nombre": "Pozole rojo", "precio": 99, "stock": 10, "id_categoria": v.fx.Category,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Producto actualizado", decode(t, rec)["message"])

	rec = v.do(t, http.MethodGet, "/api/productos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 3)

	rec = v.do(t, http.MethodDelete, api("/productos/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = v.do(t, http.MethodGet, api("/productos/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Producto no encontrado", decode(t, rec)["message"])
}

func TestValidationAndMissingRows(t *testing.T) {
	v := setup(t)

	rec := v.do(t, http.MethodPost, "/api/productos", map[string]any{"precio": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec), "error")

	assert.Equal(t, http.StatusBadRequest, v.do(t, http.MethodGet, "/api/clientes/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, v.do(t, http.MethodPut, "/api/roles/999", map[string]any{"nombre_rol": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, v.do(t, http.MethodDelete, "/api/metodos-pago/999", nil).Code)

	rec = v.do(t, http.MethodGet, "/api/pagos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestUnknownProductInDetallesIsBadRequest(t *testing.T) {
	v := setup(t)

	for _, item := range []map[string]any{
		{"id_producto": 9999, "cantidad": 1},
		{"id_producto": 9999, "cantidad": 1, "precio_unitario": 5},
	} {
		rec := v.do(t, http.MethodPost, "/api/pedidos", map[string]any{"detalles": []any{item}})
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Contains(t, decode(t, rec), "error")
	}
}

func TestOrderWithItemsComputesTotal(t *testing.T) {
	v := setup(t)

	rec := v.do(t, http.MethodPost, "/api/pedidos", map[string]any{
		"id_cliente": v.fx.Customer,
		"id_mesa":    v.fx.Table4,
		"total":      1000,
		"detalles": []map[string]any{
			{"id_producto": v.fx.Tacos, "cantidad": 2},
			{"id_producto": v.fx.Agua, "cantidad": 3},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := int64(decode(t, rec)["id_pedido"].(float64))

	order := decode(t, v.do(t, http.MethodGet, api("/pedidos/%d", id), nil))
	assert.Equal(t, 31.0, order["total"])
	assert.Equal(t, "pendiente", order["estado"])

	items := decodeList(t, v.do(t, http.MethodGet, api("/pedidos/%d/detalles", id), nil))
	assert.Len(t, items, 2)
	assert.Equal(t, []string{q.OrderCreated}, v.events.types())

	// adding a line item refreshes the total
	rec = v.do(t, http.MethodPost, "/api/detalles-pedidos", map[string]any{
		"id_pedido": id, "id_producto": v.fx.Agua, "cantidad": 1, "precio_unitario": 1.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order = decode(t, v.do(t, http.MethodGet, api("/pedidos/%d", id), nil))
	assert.Equal(t, 32.5, order["total"])

	rec = v.do(t, http.MethodPost, "/api/detalles-pedidos", map[string]any{
		"id_pedido": id, "id_producto": v.fx.Agua, "cantidad": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusOnlyUpdateKeepsOtherColumns(t *testing.T) {
	v := setup(t)
	id := testutil.MustExec(t, v.db,
		"INSERT INTO Pedidos (id_cliente, id_mesa, fecha, total, estado) VALUES (?, ?, '2024-05-01T12:00', 40, 'pendiente')",
		v.fx.Customer, v.fx.Table4)

	rec := v.do(t, http.MethodPut, api("/pedidos/%d", id), map[string]any{"estado": "preparando"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	order := decode(t, v.do(t, http.MethodGet, api("/pedidos/%d", id), nil))
	assert.Equal(t, "preparando", order["estado"])
	assert.Equal(t, float64(v.fx.Customer), order["id_cliente"])
	assert.Equal(t, float64(v.fx.Table4), order["id_mesa"])
	assert.Equal(t, 40.0, order["total"])
	assert.Equal(t, "2024-05-01T12:00", order["fecha"])
	assert.Equal(t, []string{q.OrderStatusChanged}, v.events.types())

	// a full update needs fecha and estado
	rec = v.do(t, http.MethodPut, api("/pedidos/%d", id), map[string]any{"estado": "listo", "total": 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = v.do(t, http.MethodPut, api("/pedidos/%d", id), map[string]any{
		"fecha": "2024-05-02T13:00", "estado": "listo", "total": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order = decode(t, v.do(t, http.MethodGet, api("/pedidos/%d", id), nil))
	assert.Nil(t, order["id_cliente"])
	assert.Equal(t, 10.0, order["total"])

	rec = v.do(t, http.MethodPatch, api("/pedidos/%d/estado", id), map[string]any{"estado": "servido"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStrictTransitions(t *testing.T) {
	v := setup(t, func(c *config.Config) { c.StrictOrderTransitions = true })
	id := testutil.MustExec(t, v.db,
		"INSERT INTO Pedidos (fecha, total, estado) VALUES ('2024-05-01', 0, 'pendiente')")

	rec := v.do(t, http.MethodPatch, api("/pedidos/%d/estado", id), map[string]any{"estado": "entregado"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = v.do(t, http.MethodPatch, api("/pedidos/%d/estado", id), map[string]any{"estado": "preparando"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = v.do(t, http.MethodPut, api("/pedidos/%d", id), map[string]any{"fecha": "2024-05-01", "estado": "pendiente"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderDeleteCascades(t *testing.T) {
	v := setup(t)
	id := testutil.MustExec(t, v.db, "INSERT INTO Pedidos (fecha, total, estado) VALUES ('2024-05-01', 25, 'entregado')")
	testutil.MustExec(t, v.db, "INSERT INTO Detalles_Pedidos (id_pedido, id_producto, cantidad, precio_unitario) VALUES (?, ?, 2, 12.5)", id, v.fx.Tacos)
	testutil.MustExec(t, v.db, "INSERT INTO Pagos (id_pedido, id_metodo_pago, monto, fecha) VALUES (?, ?, 25, '2024-05-01')", id, v.fx.Method)

	rec := v.do(t, http.MethodDelete, api("/pedidos/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, "[]", v.do(t, http.MethodGet, "/api/pagos", nil).Body.String())
	assert.JSONEq(t, "[]", v.do(t, http.MethodGet, "/api/detalles-pedidos", nil).Body.String())
	assert.Equal(t, []string{q.OrderDeleted}, v.events.types())
}

func TestProductDeleteRemovesItemsFirst(t *testing.T) {
	v := setup(t)
	order := testutil.MustExec(t, v.db, "INSERT INTO Pedidos (fecha, total, estado) VALUES ('2024-05-01', 29, 'pendiente')")
	testutil.MustExec(t, v.db, "INSERT INTO Detalles_Pedidos (id_pedido, id_producto, cantidad, precio_unitario) VALUES (?, ?, 2, 12.5)", order, v.fx.Tacos)
	testutil.MustExec(t, v.db, "INSERT INTO Detalles_Pedidos (id_pedido, id_producto, cantidad, precio_unitario) VALUES (?, ?, 2, 2)", order, v.fx.Agua)

	rec := v.do(t, http.MethodDelete, api("/productos/%d", v.fx.Tacos), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Producto y sus detalles eliminados", decode(t, rec)["message"])

	items := decodeList(t, v.do(t, http.MethodGet, "/api/detalles-pedidos", nil))
	require.Len(t, items, 1)
	assert.Equal(t, float64(v.fx.Agua), items[0]["id_producto"])
	assert.Equal(t, 4.0, decode(t, v.do(t, http.MethodGet, api("/pedidos/%d", order), nil))["total"])
	assert.Equal(t, http.StatusNotFound, v.do(t, http.MethodGet, api("/productos/%d", v.fx.Tacos), nil).Code)
}

func TestCategoryDeleteWithReassignment(t *testing.T) {
	v := setup(t)

	rec := v.do(t, http.MethodDelete, api("/categorias-producto/%d", v.fx.Category), nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 2.0, decode(t, rec)["productos"])

	rec = v.do(t, http.MethodDelete, api("/categorias-producto/%d?reasignar_a=%d", v.fx.Category, v.fx.Category), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = v.do(t, http.MethodDelete, api("/categorias-producto/%d?reasignar_a=999", v.fx.Category), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = v.do(t, http.MethodPost, "/api/categorias-producto", map[string]any{"nombre": "Antojitos"})
	require.Equal(t, http.StatusCreated, rec.Code)
	target := int64(decode(t, rec)["id_categoria"].(float64))

	rec = v.do(t, http.MethodDelete, api("/categorias-producto/%d?reasignar_a=%d", v.fx.Category, target), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, p := range decodeList(t, v.do(t, http.MethodGet, "/api/productos", nil)) {
		assert.Equal(t, float64(target), p["id_categoria"])
	}

	// an empty category goes directly
	rec = v.do(t, http.MethodPost, "/api/categorias-producto", map[string]any{"nombre": "Vacía"})
	empty := int64(decode(t, rec)["id"].(float64))
	assert.Equal(t, http.StatusOK, v.do(t, http.MethodDelete, api("/categorias-producto/%d", empty), nil).Code)
}

func TestReservationOverCapacityIsRejected(t *testing.T) {
	v := setup(t)
	rec := v.do(t, http.MethodPost, "/api/reservas", map[string]any{
		"id_mesa": v.fx.Table2, "id_cliente": v.fx.Customer,
		"fecha_hora": "2030-01-01T20:00", "numero_personas": 3,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, "[]", v.do(t, http.MethodGet, "/api/reservas", nil).Body.String())

	rec = v.do(t, http.MethodPost, "/api/reservas", map[string]any{
		"id_mesa": 999, "fecha_hora": "2030-01-01T20:00", "numero_personas": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, v.events.types())
}

func TestReservationUpdateNamesWhatIsMissing(t *testing.T) {
	v := setup(t)
	rec := v.do(t, http.MethodPost, "/api/reservas", map[string]any{
		"id_mesa": v.fx.Table4, "fecha_hora": "2030-01-01T20:00", "numero_personas": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := int64(decode(t, rec)["id"].(float64))

	rec = v.do(t, http.MethodPut, api("/reservas/%d", id), map[string]any{
		"id_mesa": 999, "fecha_hora": "2030-01-01T20:00", "numero_personas": 2,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Mesa no encontrada", decode(t, rec)["message"])

	rec = v.do(t, http.MethodPut, "/api/reservas/999", map[string]any{
		"id_mesa": v.fx.Table4, "fecha_hora": "2030-01-01T20:00", "numero_personas": 2,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Reserva no encontrada", decode(t, rec)["message"])
}

func TestAssignVacateOverHTTP(t *testing.T) {
	v := setup(t)

	rec := v.do(t, http.MethodPost, api("/mesas/%d/asignar", v.fx.Table4), map[string]any{"guests": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	table := decode(t, rec)
	assert.Equal(t, "ocupada", table["estado"])
	assert.Equal(t, 3.0, table["currentGuests"])

	rec = v.do(t, http.MethodPost, api("/mesas/%d/asignar", v.fx.Table4), map[string]any{"guests": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = v.do(t, http.MethodPost, api("/mesas/%d/asignar", v.fx.Table2), map[string]any{"guests": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	at := time.Now().Add(48 * time.Hour).Format("2006-01-02T15:04")
	rec = v.do(t, http.MethodPost, "/api/reservas", map[string]any{
		"id_mesa": v.fx.Table4, "fecha_hora": at, "numero_personas": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reservation := decode(t, rec)["id_reserva"]
	// occupancy wins over the new reservation
	assert.Equal(t, "ocupada", decode(t, v.do(t, http.MethodGet, api("/mesas/%d", v.fx.Table4), nil))["estado"])

	rec = v.do(t, http.MethodPost, api("/mesas/%d/liberar", v.fx.Table4), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode(t, rec)
	assert.Equal(t, reservation, res["id_reserva_cancelada"])
	mesa := res["mesa"].(map[string]any)
	assert.Equal(t, "disponible", mesa["estado"])
	assert.Equal(t, 0.0, mesa["currentGuests"])

	rv := decode(t, v.do(t, http.MethodGet, api("/reservas/%v", reservation), nil))
	assert.Equal(t, "cancelada", rv["estado"])
	assert.Equal(t, []string{q.TableAssigned, q.ReservationCreated, q.TableVacated}, v.events.types())
}

func TestFloorPlanShowsReservedPartySize(t *testing.T) {
	v := setup(t)
	at := time.Now().Add(3 * time.Hour).Format("2006-01-02T15:04")
	rec := v.do(t, http.MethodPost, "/api/reservas", map[string]any{
		"id_mesa": v.fx.Table2, "fecha_hora": at, "numero_personas": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	plan := decodeList(t, v.do(t, http.MethodGet, "/api/mesas/plano", nil))
	require.Len(t, plan, 2)
	reserved := plan[1]
	assert.Equal(t, "reservada", reserved["estado"])
	assert.Equal(t, 2.0, reserved["currentGuests"])
	assert.Equal(t, at[11:], reserved["reservationTime"])
}

func TestTableQR(t *testing.T) {
	v := setup(t)
	rec := v.do(t, http.MethodGet, api("/mesas/%d/qr", v.fx.Table4), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusNotFound, v.do(t, http.MethodGet, "/api/mesas/999/qr", nil).Code)
}

func TestReports(t *testing.T) {
	v := setup(t)
	today := time.Now().Format("2006-01-02T15:04")
	order := testutil.MustExec(t, v.db, "INSERT INTO Pedidos (fecha, total, estado) VALUES (?, 25, 'entregado')", today)
	testutil.MustExec(t, v.db, "INSERT INTO Detalles_Pedidos (id_pedido, id_producto, cantidad, precio_unitario) VALUES (?, ?, 2, 12.5)", order, v.fx.Tacos)

	summary := decode(t, v.do(t, http.MethodGet, "/api/analytics/resumen", nil))
	assert.Equal(t, 1.0, summary["totalOrders"])
	assert.Equal(t, 25.0, summary["totalRevenue"])

	dash := decode(t, v.do(t, http.MethodGet, "/api/dashboard", nil))
	assert.Equal(t, 25.0, dash["revenueToday"])
	assert.Equal(t, 2.0, dash["totalTables"])

	inv := decodeList(t, v.do(t, http.MethodGet, "/api/inventario", nil))
	assert.Len(t, inv, 2)
	low := decodeList(t, v.do(t, http.MethodGet, "/api/inventario/bajo-stock", nil))
	require.Len(t, low, 1)
	assert.Equal(t, "Agua", low[0]["nombre"])
	assert.Equal(t, "critical", low[0]["status"])
	assert.Equal(t, "Platos fuertes", low[0]["categoria"])
}

func TestPeopleAndPayments(t *testing.T) {
	v := setup(t)

	rec := v.do(t, http.MethodPost, "/api/clientes", map[string]any{"nombre": "Ana", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id_cliente"]
	c := decode(t, v.do(t, http.MethodGet, api("/clientes/%v", id), nil))
	assert.NotEmpty(t, c["fecha_registro"])

	rec = v.do(t, http.MethodPost, "/api/empleados", map[string]any{"nombre": "Luis"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = v.do(t, http.MethodPost, "/api/roles", map[string]any{"nombre_rol": "Cocinero"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = v.do(t, http.MethodPost, "/api/metodos-pago", map[string]any{"nombre": "Tarjeta"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	order := testutil.MustExec(t, v.db, "INSERT INTO Pedidos (fecha, total, estado) VALUES ('2024-05-01', 10, 'entregado')")
	rec = v.do(t, http.MethodPost, "/api/pagos", map[string]any{"id_pedido": order, "id_metodo_pago": v.fx.Method, "monto": 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = v.do(t, http.MethodPost, "/api/pagos", map[string]any{"id_pedido": order, "monto": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
