package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/handler"
)

// RegisterAPI registers the entity routes on g, which is mounted at /api.
func RegisterAPI(g *echo.Group, h *handler.Handler) {
	// ---- Catalog ----
	g.GET("/productos", h.ListProducts)
	g.GET("/productos/:id", h.GetProduct)
	g.POST("/productos", h.CreateProduct)
	g.PUT("/productos/:id", h.UpdateProduct)
	g.DELETE("/productos/:id", h.DeleteProduct)

	g.GET("/categorias-producto", h.ListCategories)
	g.GET("/categorias-producto/:id", h.GetCategory)
	g.POST("/categorias-producto", h.CreateCategory)
	g.PUT("/categorias-producto/:id", h.UpdateCategory)
	g.DELETE("/categorias-producto/:id", h.DeleteCategory) // ?reasignar_a=<id>

	// ---- Orders ----
	g.GET("/pedidos", h.ListOrders)
	g.GET("/pedidos/:id", h.GetOrder)
	g.GET("/pedidos/:id/detalles", h.ListOrderItems)
	g.POST("/pedidos", h.CreateOrder)
	g.PUT("/pedidos/:id", h.UpdateOrder)
	g.PATCH("/pedidos/:id/estado", h.UpdateOrderStatus)
	g.DELETE("/pedidos/:id", h.DeleteOrder)

	g.GET("/detalles-pedidos", h.ListItems)
	g.GET("/detalles-pedidos/:id", h.GetItem)
	g.POST("/detalles-pedidos", h.CreateItem)
	g.PUT("/detalles-pedidos/:id", h.UpdateItem)
	g.DELETE("/detalles-pedidos/:id", h.DeleteItem)

	// ---- Floor ----
	g.GET("/mesas/plano", h.FloorPlan)
	g.GET("/mesas", h.ListTables)
	g.GET("/mesas/:id", h.GetTable)
	g.GET("/mesas/:id/qr", h.TableQR)
	g.POST("/mesas", h.CreateTable)
	g.PUT("/mesas/:id", h.UpdateTable)
	g.POST("/mesas/:id/asignar", h.AssignTable)
	g.POST("/mesas/:id/liberar", h.VacateTable)
	g.DELETE("/mesas/:id", h.DeleteTable)

	g.GET("/reservas", h.ListReservations)
	g.GET("/reservas/:id", h.GetReservation)
	g.POST("/reservas", h.CreateReservation)
	g.PUT("/reservas/:id", h.UpdateReservation)
	g.DELETE("/reservas/:id", h.DeleteReservation)

	// ---- People ----
	g.GET("/clientes", h.ListCustomers)
	g.GET("/clientes/:id", h.GetCustomer)
	g.POST("/clientes", h.CreateCustomer)
	g.PUT("/clientes/:id", h.UpdateCustomer)
	g.DELETE("/clientes/:id", h.DeleteCustomer)

	g.GET("/empleados", h.ListEmployees)
	g.GET("/empleados/:id", h.GetEmployee)
	g.POST("/empleados", h.CreateEmployee)
	g.PUT("/empleados/:id", h.UpdateEmployee)
	g.DELETE("/empleados/:id", h.DeleteEmployee)

	g.GET("/roles", h.ListRoles)
	g.GET("/roles/:id", h.GetRole)
	g.POST("/roles", h.CreateRole)
	g.PUT("/roles/:id", h.UpdateRole)
	g.DELETE("/roles/:id", h.DeleteRole)

	// ---- Payments ----
	g.GET("/pagos", h.ListPayments)
	g.GET("/pagos/:id", h.GetPayment)
	g.POST("/pagos", h.CreatePayment)
	g.PUT("/pagos/:id", h.UpdatePayment)
	g.DELETE("/pagos/:id", h.DeletePayment)

	g.GET("/metodos-pago", h.ListPaymentMethods)
	g.GET("/metodos-pago/:id", h.GetPaymentMethod)
	g.POST("/metodos-pago", h.CreatePaymentMethod)
	g.PUT("/metodos-pago/:id", h.UpdatePaymentMethod)
	g.DELETE("/metodos-pago/:id", h.DeletePaymentMethod)

	// ---- Reports ----
	g.GET("/analytics/resumen", h.SalesSummary)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/inventario", h.Inventory)
	g.GET("/inventario/bajo-stock", h.LowStock)
}
