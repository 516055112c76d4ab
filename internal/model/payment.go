package model

import "github.com/shopspring/decimal"

// Payment is a row of `Pagos`. Payments are records only; nothing here
// talks to a payment processor.
type Payment struct {
	ID           int64           `json:"id_pago"`
	IDPedido     int64           `json:"id_pedido"`
	IDMetodoPago *int64          `json:"id_metodo_pago"`
	Monto        decimal.Decimal `json:"monto"`
	Fecha        string          `json:"fecha"`
}

// PaymentMethod is a row of `Metodos_Pago`.
type PaymentMethod struct {
	ID     int64  `json:"id_metodo_pago"`
	Nombre string `json:"nombre"`
}
