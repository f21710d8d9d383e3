package cart

import (
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// ItemKind тип позиции корзины
type ItemKind string

const (
	KindCourtBooking ItemKind = "court_booking"
	KindProduct      ItemKind = "product"
)

// LineItem позиция корзины: CourtBooking или ProductLine
type LineItem interface {
	ID() string
	Kind() ItemKind
	UnitPrice() int64
	lineItem()
}

// CourtBooking выбранный слот корта, количество всегда 1
type CourtBooking struct {
	Slot      domain.TimeSlot
	CourtName string
}

func (b CourtBooking) ID() string       { return "court:" + b.Slot.Key().String() }
func (b CourtBooking) Kind() ItemKind   { return KindCourtBooking }
func (b CourtBooking) UnitPrice() int64 { return b.Slot.Price }
func (CourtBooking) lineItem()          {}

// ProductLine товар площадки (аренда ракеток, мячи и т.п.)
type ProductLine struct {
	ProductID string
	Name      string
	Price     int64
}

func (p ProductLine) ID() string       { return "product:" + p.ProductID }
func (p ProductLine) Kind() ItemKind   { return KindProduct }
func (p ProductLine) UnitPrice() int64 { return p.Price }
func (ProductLine) lineItem()          {}

// Entry позиция с количеством
type Entry struct {
	Item     LineItem
	Quantity int
	VenueID  int64
}

// Amount стоимость позиции
func (e Entry) Amount() int64 {
	return e.Item.UnitPrice() * int64(e.Quantity)
}
