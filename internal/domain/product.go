package domain

import "github.com/shopspring/decimal"

// Product is the subset of a catalog product the storefront works with.
type Product struct {
	ID                 ProductID
	Title              string
	Description        string
	Category           string
	Brand              string
	Price              decimal.Decimal
	DiscountPercentage decimal.Decimal
	Rating             decimal.Decimal
	Stock              int
	Thumbnail          string
	Images             []string
}

type Category struct {
	Slug string
	Name string
	URL  string
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products []Product
	Total    int
	Skip     int
	Limit    int
}
