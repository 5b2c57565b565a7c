package dummyjson

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
)

var _ port.Catalog = (*Client)(nil)

type productResponse struct {
	ID                 int64       `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Category           string      `json:"category"`
	Brand              string      `json:"brand"`
	Price              json.Number `json:"price"`
	DiscountPercentage json.Number `json:"discountPercentage"`
	Rating             json.Number `json:"rating"`
	Stock              int         `json:"stock"`
	Thumbnail          string      `json:"thumbnail"`
	Images             []string    `json:"images"`
}

type productsResponse struct {
	Products []productResponse `json:"products"`
	Total    int               `json:"total"`
	Skip     int               `json:"skip"`
	Limit    int               `json:"limit"`
}

type categoryResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListProducts calls GET /products. Zero limit and skip use the API defaults.
func (c *Client) ListProducts(ctx context.Context, limit, skip int) (domain.ProductPage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}

	var resp productsResponse
	if err := c.do(ctx, "list products", http.MethodGet, "/products", query, nil, &resp); err != nil {
		return domain.ProductPage{}, fmt.Errorf("c.do: %w", err)
	}

	return mapProductsToDomain(resp)
}

func (c *Client) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	if id == 0 {
		return domain.Product{}, fmt.Errorf("product id is empty")
	}

	var resp productResponse
	path := "/products/" + strconv.FormatInt(int64(id), 10)
	if err := c.do(ctx, "get product", http.MethodGet, path, nil, nil, &resp); err != nil {
		return domain.Product{}, fmt.Errorf("c.do: %w", err)
	}

	product, err := mapProductToDomain(resp)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp []categoryResponse
	if err := c.do(ctx, "list categories", http.MethodGet, "/products/categories", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("c.do: %w", err)
	}

	categories := make([]domain.Category, 0, len(resp))
	for _, category := range resp {
		categories = append(categories, domain.Category{
			Slug: category.Slug,
			Name: category.Name,
			URL:  category.URL,
		})
	}

	return categories, nil
}

func (c *Client) ListCategoryProducts(ctx context.Context, slug string) (domain.ProductPage, error) {
	if slug == "" {
		return domain.ProductPage{}, fmt.Errorf("category slug is empty")
	}
	if strings.Contains(slug, "/") || slug == "." || slug == ".." {
		return domain.ProductPage{}, fmt.Errorf("category slug[%s] is not valid", slug)
	}

	// JoinPath takes escaped segments, so ? and % in a slug stay part of the path
	path := "/products/category/" + url.PathEscape(slug)

	var resp productsResponse
	if err := c.do(ctx, "list category products", http.MethodGet, path, nil, nil, &resp); err != nil {
		return domain.ProductPage{}, fmt.Errorf("c.do: %w", err)
	}

	return mapProductsToDomain(resp)
}

func mapProductsToDomain(resp productsResponse) (domain.ProductPage, error) {
	page := domain.ProductPage{
		Products: make([]domain.Product, 0, len(resp.Products)),
		Total:    resp.Total,
		Skip:     resp.Skip,
		Limit:    resp.Limit,
	}

	for _, p := range resp.Products {
		product, err := mapProductToDomain(p)
		if err != nil {
			return domain.ProductPage{}, fmt.Errorf("mapProductToDomain: %w", err)
		}
		page.Products = append(page.Products, product)
	}

	return page, nil
}

func mapProductToDomain(resp productResponse) (domain.Product, error) {
	if resp.ID == 0 {
		return domain.Product{}, fmt.Errorf("product id is empty")
	}

	price, err := parseDecimal(resp.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price[%s] is not valid: %w", resp.Price, err)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("price[%s] is negative", resp.Price)
	}

	discount, err := parseDecimal(resp.DiscountPercentage)
	if err != nil {
		return domain.Product{}, fmt.Errorf("discountPercentage[%s] is not valid: %w", resp.DiscountPercentage, err)
	}

	rating, err := parseDecimal(resp.Rating)
	if err != nil {
		return domain.Product{}, fmt.Errorf("rating[%s] is not valid: %w", resp.Rating, err)
	}

	return domain.Product{
		ID:                 domain.ProductID(resp.ID),
		Title:              resp.Title,
		Description:        resp.Description,
		Category:           resp.Category,
		Brand:              resp.Brand,
		Price:              price,
		DiscountPercentage: discount,
		Rating:             rating,
		Stock:              resp.Stock,
		Thumbnail:          resp.Thumbnail,
		Images:             resp.Images,
	}, nil
}

func parseDecimal(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
