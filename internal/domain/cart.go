package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ProductID is the catalog identifier of a product. It is the unique key of a
// line item within a cart.
type ProductID int64

type Cart struct {
	Items []CartLineItem
}

type CartLineItem struct {
	ID        ProductID
	Title     string
	Price     decimal.Decimal
	Thumbnail string
	Images    []string
	Category  string
	Quantity  int
}

// Subtotal is the unit price multiplied by the quantity.
func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums price*quantity over all items. It is computed on every call.
func (c Cart) Total(unit currency.Unit) Money {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}

	return Money{Amount: total, Currency: unit}
}

// Count is the number of units in the cart, summed across line items.
func (c Cart) Count() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c Cart) Find(id ProductID) (CartLineItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartLineItem{}, false
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a deep copy safe to hand out to readers.
func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}

	items := make([]CartLineItem, len(c.Items))
	for i, item := range c.Items {
		if item.Images != nil {
			item.Images = append([]string(nil), item.Images...)
		}
		items[i] = item
	}

	return Cart{Items: items}
}
