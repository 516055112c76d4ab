package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/model"
)

const (
	msgProductMissing  = "Producto no encontrado"
	msgCategoryMissing = "Categoría no encontrada"
)

func validProduct(p *model.Product) string {
	p.Nombre = strings.TrimSpace(p.Nombre)
	switch {
	case p.Nombre == "":
		return "nombre es requerido"
	case p.Precio.IsNegative():
		return "precio no puede ser negativo"
	case p.Stock < 0:
		return "stock no puede ser negativo"
	}
	return ""
}

func (h *Handler) ListProducts(c echo.Context) error { return list(c, h.Products.List) }

func (h *Handler) GetProduct(c echo.Context) error {
	return show(c, msgProductMissing, h.Products.GetByID)
}

func (h *Handler) CreateProduct(c echo.Context) error {
	var p model.Product
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if msg := validProduct(&p); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Products.Create(ctx, p)
	if err != nil {
		return fail(c, err, msgCategoryMissing)
	}
	return created(c, "id_producto", id)
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var p model.Product
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	p.ID = id
	if msg := validProduct(&p); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Products.Update(ctx, p); err != nil {
		return fail(c, err, msgProductMissing)
	}
	return done(c, "Producto actualizado")
}

// DeleteProduct removes the product and every line item that uses it.
func (h *Handler) DeleteProduct(c echo.Context) error {
	return remove(c, msgProductMissing, "Producto y sus detalles eliminados", h.Products.Delete)
}

func (h *Handler) ListCategories(c echo.Context) error { return list(c, h.Categories.List) }

func (h *Handler) GetCategory(c echo.Context) error {
	return show(c, msgCategoryMissing, h.Categories.GetByID)
}

func (h *Handler) CreateCategory(c echo.Context) error {
	var cat model.Category
	if err := c.Bind(&cat); err != nil {
		return invalidBody(c)
	}
	if cat.Nombre = strings.TrimSpace(cat.Nombre); cat.Nombre == "" {
		return badRequest(c, "nombre es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Categories.Create(ctx, cat)
	if err != nil {
		return fail(c, err, msgCategoryMissing)
	}
	return created(c, "id_categoria", id)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var cat model.Category
	if err := c.Bind(&cat); err != nil {
		return invalidBody(c)
	}
	cat.ID = id
	if cat.Nombre = strings.TrimSpace(cat.Nombre); cat.Nombre == "" {
		return badRequest(c, "nombre es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Categories.Update(ctx, cat); err != nil {
		return fail(c, err, msgCategoryMissing)
	}
	return done(c, "Categoría actualizada")
}

// DeleteCategory handles DELETE /api/categorias-producto/:id. Products of
// the category are moved to ?reasignar_a=<id> before it is removed; without
// a target a category in use answers 409.
func (h *Handler) DeleteCategory(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var target *int64
	if raw := c.QueryParam("reasignar_a"); raw != "" {
		t, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || t <= 0 {
			return badRequest(c, "reasignar_a inválido")
		}
		target = &t
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Categories.Delete(ctx, id, target); err != nil {
		return fail(c, err, msgCategoryMissing)
	}
	return done(c, "Categoría eliminada")
}
