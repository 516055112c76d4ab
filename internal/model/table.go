package model

// TableStatus is stored in Mesas.estado.
type TableStatus string

const (
	TableAvailable TableStatus = "disponible"
	TableOccupied  TableStatus = "ocupada"
	TableReserved  TableStatus = "reservada"
)

// Valid reports whether s is a known table status.
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

// Table is a row of `Mesas`. CurrentGuests is only meaningful while the
// table is occupied; it is zero in every other state.
type Table struct {
	ID            int64       `json:"id_mesa"`
	NumeroMesa    int         `json:"numero_mesa"`
	Capacidad     int         `json:"capacidad"`
	Estado        TableStatus `json:"estado"`
	CurrentGuests int         `json:"currentGuests"`
}

// Normalize zeroes the guest count of tables that are not occupied.
func (t *Table) Normalize() {
	if t.Estado != TableOccupied {
		t.CurrentGuests = 0
	}
}
