package analytics

import (
	"time"

	"github.com/iliyamo/restaurante/internal/model"
	"github.com/iliyamo/restaurante/internal/repository"
)

// FloorTable is a table as the host stand sees it: the guest count of a
// reserved table comes from its upcoming reservation.
type FloorTable struct {
	model.Table
	Reservation     *model.Reservation `json:"reservation,omitempty"`
	ReservationTime string             `json:"reservationTime,omitempty"`
}

// FloorPlan derives the display state of every table.
func FloorPlan(tables []model.Table, reservations []model.Reservation, now time.Time) []FloorTable {
	byTable := map[int64][]model.Reservation{}
	for _, r := range reservations {
		byTable[r.IDMesa] = append(byTable[r.IDMesa], r)
	}

	out := make([]FloorTable, 0, len(tables))
	for _, t := range tables {
		ft := FloorTable{Table: t}
		next, ok := repository.NextReservation(byTable[t.ID], now)
		if ok {
			next := next
			ft.Reservation = &next
			if at, err := model.ParseTimestamp(next.FechaHora, now.Location()); err == nil {
				ft.ReservationTime = at.In(now.Location()).Format("15:04")
			}
		}
		switch t.Estado {
		case model.TableAvailable:
			ft.CurrentGuests = 0
		case model.TableReserved:
			ft.CurrentGuests = 0
			if ok {
				ft.CurrentGuests = next.NumeroPersonas
			}
		}
		out = append(out, ft)
	}
	return out
}
