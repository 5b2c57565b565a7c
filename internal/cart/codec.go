package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// lineItemRecord is the persisted shape of a line item. Price is written as a
// JSON number so the stored array matches what catalog clients expect.
type lineItemRecord struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Price     json.Number `json:"price"`
	Thumbnail string      `json:"thumbnail,omitempty"`
	Images    []string    `json:"images,omitempty"`
	Category  string      `json:"category,omitempty"`
	Quantity  int         `json:"quantity"`
}

func encodeCart(cart domain.Cart) (string, error) {
	records := make([]lineItemRecord, 0, len(cart.Items))
	for _, item := range cart.Items {
		records = append(records, lineItemRecord{
			ID:        int64(item.ID),
			Title:     item.Title,
			Price:     json.Number(item.Price.String()),
			Thumbnail: item.Thumbnail,
			Images:    item.Images,
			Category:  item.Category,
			Quantity:  item.Quantity,
		})
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(payload), nil
}

// decodeCart parses a stored cart. Repeated ids are merged by summing
// quantities so the one-line-per-product rule holds after restore.
func decodeCart(payload string) (domain.Cart, error) {
	var records []lineItemRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	var cart domain.Cart
	index := make(map[domain.ProductID]int, len(records))

	for i, record := range records {
		item, err := mapRecordToDomain(record)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("item[%d]: %w", i, err)
		}

		if at, ok := index[item.ID]; ok {
			cart.Items[at].Quantity += item.Quantity
			continue
		}

		index[item.ID] = len(cart.Items)
		cart.Items = append(cart.Items, item)
	}

	return cart, nil
}

func mapRecordToDomain(record lineItemRecord) (domain.CartLineItem, error) {
	if record.ID == 0 {
		return domain.CartLineItem{}, fmt.Errorf("id is empty")
	}
	if record.Quantity < 1 {
		return domain.CartLineItem{}, fmt.Errorf("quantity[%d] is below 1", record.Quantity)
	}

	price, err := decimal.NewFromString(record.Price.String())
	if err != nil {
		return domain.CartLineItem{}, fmt.Errorf("price[%s] is not valid: %w", record.Price, err)
	}
	if price.IsNegative() {
		return domain.CartLineItem{}, fmt.Errorf("price[%s] is negative", record.Price)
	}

	return domain.CartLineItem{
		ID:        domain.ProductID(record.ID),
		Title:     record.Title,
		Price:     price,
		Thumbnail: record.Thumbnail,
		Images:    record.Images,
		Category:  record.Category,
		Quantity:  record.Quantity,
	}, nil
}
