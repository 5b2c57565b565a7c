package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type AuthClient interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
	AddUser(ctx context.Context, user NewUser) error
}

type NewUser struct {
	FirstName string
	Email     string
	Password  string
}

type Catalog interface {
	ListProducts(ctx context.Context, limit, skip int) (domain.ProductPage, error)
	GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListCategoryProducts(ctx context.Context, slug string) (domain.ProductPage, error)
}
