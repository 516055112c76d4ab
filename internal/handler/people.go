package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/model"
)

const (
	msgCustomerMissing = "Cliente no encontrado"
	msgEmployeeMissing = "Empleado no encontrado"
	msgRoleMissing     = "Rol no encontrado"
)

func (h *Handler) ListCustomers(c echo.Context) error { return list(c, h.Customers.List) }

func (h *Handler) GetCustomer(c echo.Context) error {
	return show(c, msgCustomerMissing, h.Customers.GetByID)
}

// CreateCustomer stamps fecha_registro with the current time when the
// client leaves it out.
func (h *Handler) CreateCustomer(c echo.Context) error {
	var cu model.Customer
	if err := c.Bind(&cu); err != nil {
		return invalidBody(c)
	}
	if cu.Nombre = strings.TrimSpace(cu.Nombre); cu.Nombre == "" {
		return badRequest(c, "nombre es requerido")
	}
	if cu.FechaRegistro == nil {
		now := model.FormatTimestamp(h.Now())
		cu.FechaRegistro = &now
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Customers.Create(ctx, cu)
	if err != nil {
		return fail(c, err, msgCustomerMissing)
	}
	return created(c, "id_cliente", id)
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var cu model.Customer
	if err := c.Bind(&cu); err != nil {
		return invalidBody(c)
	}
	cu.ID = id
	if cu.Nombre = strings.TrimSpace(cu.Nombre); cu.Nombre == "" {
		return badRequest(c, "nombre es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Customers.Update(ctx, cu); err != nil {
		return fail(c, err, msgCustomerMissing)
	}
	return done(c, "Cliente actualizado")
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	return remove(c, msgCustomerMissing, "Cliente eliminado", h.Customers.Delete)
}

func (h *Handler) ListEmployees(c echo.Context) error { return list(c, h.Employees.List) }

func (h *Handler) GetEmployee(c echo.Context) error {
	return show(c, msgEmployeeMissing, h.Employees.GetByID)
}

func (h *Handler) CreateEmployee(c echo.Context) error {
	var e model.Employee
	if err := c.Bind(&e); err != nil {
		return invalidBody(c)
	}
	if e.Nombre = strings.TrimSpace(e.Nombre); e.Nombre == "" {
		return badRequest(c, "nombre es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Employees.Create(ctx, e)
	if err != nil {
		return fail(c, err, msgEmployeeMissing)
	}
	return created(c, "id_empleado", id)
}

func (h *Handler) UpdateEmployee(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var e model.Employee
	if err := c.Bind(&e); err != nil {
		return invalidBody(c)
	}
	e.ID = id
	if e.Nombre = strings.TrimSpace(e.Nombre); e.Nombre == "" {
		return badRequest(c, "nombre es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Employees.Update(ctx, e); err != nil {
		return fail(c, err, msgEmployeeMissing)
	}
	return done(c, "Empleado actualizado")
}

func (h *Handler) DeleteEmployee(c echo.Context) error {
	return remove(c, msgEmployeeMissing, "Empleado eliminado", h.Employees.Delete)
}

func (h *Handler) ListRoles(c echo.Context) error { return list(c, h.Roles.List) }

func (h *Handler) GetRole(c echo.Context) error {
	return show(c, msgRoleMissing, h.Roles.GetByID)
}

func (h *Handler) CreateRole(c echo.Context) error {
	var r model.Role
	if err := c.Bind(&r); err != nil {
		return invalidBody(c)
	}
	if r.NombreRol = strings.TrimSpace(r.NombreRol); r.NombreRol == "" {
		return badRequest(c, "nombre_rol es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Roles.Create(ctx, r)
	if err != nil {
		return fail(c, err, msgRoleMissing)
	}
	return created(c, "id_rol", id)
}

func (h *Handler) UpdateRole(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var r model.Role
	if err := c.Bind(&r); err != nil {
		return invalidBody(c)
	}
	r.ID = id
	if r.NombreRol = strings.TrimSpace(r.NombreRol); r.NombreRol == "" {
		return badRequest(c, "nombre_rol es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Roles.Update(ctx, r); err != nil {
		return fail(c, err, msgRoleMissing)
	}
	return done(c, "Rol actualizado")
}

func (h *Handler) DeleteRole(c echo.Context) error {
	return remove(c, msgRoleMissing, "Rol eliminado", h.Roles.Delete)
}
