package cart

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// Cart корзина одной сессии пользователя
// Все позиции относятся к одной площадке. Не потокобезопасна: у корзины один владелец
type Cart struct {
	venueID int64
	entries []Entry
}

// New создает пустую корзину
func New() *Cart {
	return &Cart{}
}

// Add добавляет позицию
// Позиция другой площадки заменяет содержимое корзины целиком
// Повторный слот корта игнорируется, повторный товар увеличивает количество
func (c *Cart) Add(venueID int64, item LineItem) {
	if len(c.entries) > 0 && c.venueID != venueID {
		c.entries = nil
	}
	c.venueID = venueID

	if i := c.indexOf(item.ID()); i >= 0 {
		if item.Kind() == KindProduct {
			c.entries[i].Quantity++
		}
		return
	}

	c.entries = append(c.entries, Entry{Item: item, Quantity: 1, VenueID: venueID})
}

// Remove удаляет позицию, возвращает false если её не было
func (c *Cart) Remove(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return true
}

// UpdateQuantity задает количество, qty <= 0 удаляет позицию
// Для слота корта количество больше 1 не бывает
func (c *Cart) UpdateQuantity(id string, qty int) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		return c.Remove(id)
	}
	if c.entries[i].Item.Kind() == KindCourtBooking {
		qty = 1
	}
	c.entries[i].Quantity = qty
	return true
}

// Clear очищает корзину
func (c *Cart) Clear() {
	c.entries = nil
	c.venueID = 0
}

// VenueID площадка корзины, 0 для пустой
func (c *Cart) VenueID() int64 {
	if len(c.entries) == 0 {
		return 0
	}
	return c.venueID
}

// Len количество позиций
func (c *Cart) Len() int {
	return len(c.entries)
}

// Entries копия позиций в порядке добавления
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Subtotal сумма позиций заданного типа
func (c *Cart) Subtotal(kind ItemKind) int64 {
	var total int64
	for _, e := range c.entries {
		if e.Item.Kind() == kind {
			total += e.Amount()
		}
	}
	return total
}

// Total сумма всех позиций
func (c *Cart) Total() int64 {
	var total int64
	for _, e := range c.entries {
		total += e.Amount()
	}
	return total
}

// ToCommitRequest снимок слотов кортов в виде запроса на резервирование
// Корзина не изменяется
func (c *Cart) ToCommitRequest(ownerRef string) domain.ReserveRequest {
	items := make([]domain.TimeSlot, 0, len(c.entries))
	for _, e := range c.entries {
		if b, ok := e.Item.(CourtBooking); ok {
			items = append(items, b.Slot)
		}
	}
	return domain.ReserveRequest{OwnerRef: ownerRef, Items: items}
}

// Checkout резервирует слоты корзины через ledger
// При конфликте корзина сбрасывается, пользователь выбирает слоты заново
// При успехе из корзины удаляются зарезервированные слоты, товары остаются для заказа
func (c *Cart) Checkout(ctx context.Context, reserver Reserver, ownerRef string) (*domain.ReserveResult, error) {
	req := c.ToCommitRequest(ownerRef)
	if len(req.Items) == 0 {
		return nil, ErrNoCourtBookings
	}

	res, err := reserver.Reserve(ctx, req)
	if err != nil {
		var conflictErr *domain.ConflictError
		if errors.As(err, &conflictErr) {
			c.Clear()
		}
		return nil, err
	}

	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.Item.Kind() != KindCourtBooking {
			kept = append(kept, e)
		}
	}
	c.entries = kept

	return res, nil
}

func (c *Cart) indexOf(id string) int {
	for i, e := range c.entries {
		if e.Item.ID() == id {
			return i
		}
	}
	return -1
}
