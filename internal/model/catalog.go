package model

import "github.com/shopspring/decimal"

// Category is a row of `Categorias_Producto`.
type Category struct {
	ID     int64  `json:"id_categoria"`
	Nombre string `json:"nombre"`
}

// Product is a menu item. Stock is tracked per product; the price is the
// current list price and is copied into line items when they are created.
type Product struct {
	ID          int64           `json:"id_producto"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	IDCategoria *int64          `json:"id_categoria"`
}
