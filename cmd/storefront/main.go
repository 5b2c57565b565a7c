package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/nikolayk812/storefront/internal/app"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logger"
)

const usage = `usage: storefront <command> [args]

commands:
  products [-limit n] [-skip n] [-category slug]
  product <id>
  categories
  cart [add <id> [qty] | inc <id> | dec <id> | rm <id> | clear]
  login <email-or-username> <password>
  signup <full name> <email> <password>
  logout
  whoami
  checkout -address a -city c -phone p -card n`

func main() {
	if len(os.Args) < 2 {
		config.Exitf("%s", usage)
	}

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}

	log := logger.New(logger.Options{
		Service: "storefront",
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		config.Exitf("start: %v", err)
	}

	err = run(ctx, a, os.Stdout, os.Args[1], os.Args[2:])
	if closeErr := a.Close(); closeErr != nil {
		log.Warn("close storage", "error", closeErr)
	}
	if err != nil {
		config.Exitf("%s: %s", os.Args[1], describe(err))
	}
}

func run(ctx context.Context, a *app.App, out io.Writer, command string, args []string) error {
	switch command {
	case "products":
		return listProducts(ctx, a, out, args)
	case "product":
		return showProduct(ctx, a, out, args)
	case "categories":
		return listCategories(ctx, a, out)
	case "cart":
		return cartCommand(ctx, a, out, args)
	case "login":
		if len(args) != 2 {
			return errors.New("expected <email-or-username> <password>")
		}
		session, err := a.Auth.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "logged in as %s %s <%s>\n", session.User.FirstName, session.User.LastName, session.User.Email)
		return nil
	case "signup":
		if len(args) != 3 {
			return errors.New("expected <full name> <email> <password>")
		}
		session, err := a.Auth.Signup(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "account created, logged in as %s <%s>\n", session.User.FirstName, session.User.Email)
		return nil
	case "logout":
		a.Auth.Logout(ctx)
		fmt.Fprintln(out, "logged out")
		return nil
	case "whoami":
		session, ok := a.Auth.Session()
		if !ok {
			fmt.Fprintln(out, "not logged in")
			return nil
		}
		fmt.Fprintf(out, "%s %s <%s> id=%d\n", session.User.FirstName, session.User.LastName, session.User.Email, session.User.ID)
		if !session.ExpiresAt.IsZero() {
			fmt.Fprintf(out, "token expires %s\n", session.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		}
		return nil
	case "checkout":
		return placeOrder(ctx, a, out, args)
	}

	return fmt.Errorf("unknown command\n%s", usage)
}

func listProducts(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	limit := fs.Int("limit", 30, "page size")
	skip := fs.Int("skip", 0, "products to skip")
	category := fs.String("category", "", "category slug")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		page domain.ProductPage
		err  error
	)
	if *category != "" {
		page, err = a.Catalog.ListCategoryProducts(ctx, *category)
	} else {
		page, err = a.Catalog.ListProducts(ctx, *limit, *skip)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE")
	for _, p := range page.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, p.Price.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t%d of %d\t\t\n", len(page.Products), page.Total)
	return tw.Flush()
}

func showProduct(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	id, err := productID(args)
	if err != nil {
		return err
	}

	p, err := a.Catalog.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (#%d)\n%s\n\nbrand: %s\ncategory: %s\nprice: %s (-%s%%)\nrating: %s\nstock: %d\n",
		p.Title, p.ID, p.Description, p.Brand, p.Category,
		p.Price.StringFixed(2), p.DiscountPercentage.StringFixed(2), p.Rating.StringFixed(1), p.Stock)
	return nil
}

func listCategories(ctx context.Context, a *app.App, out io.Writer) error {
	categories, err := a.Catalog.ListCategories(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\n", c.Slug, c.Name)
	}
	return tw.Flush()
}

func cartCommand(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	if len(args) == 0 {
		printCart(a, out)
		return nil
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "clear":
		a.Cart.ClearCart(ctx)
	case "add":
		if len(rest) < 1 || len(rest) > 2 {
			return errors.New("expected add <id> [qty]")
		}
		id, err := productID(rest[:1])
		if err != nil {
			return err
		}
		quantity := 1
		if len(rest) == 2 {
			if quantity, err = strconv.Atoi(rest[1]); err != nil {
				return fmt.Errorf("quantity[%s] is not a number", rest[1])
			}
		}

		p, err := a.Catalog.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		if err := a.Cart.AddToCart(ctx, p, quantity); err != nil {
			return err
		}
	case "inc", "dec", "rm":
		id, err := productID(rest)
		if err != nil {
			return err
		}

		var found bool
		switch sub {
		case "inc":
			found = a.Cart.IncreaseQuantity(ctx, id)
		case "dec":
			found = a.Cart.DecreaseQuantity(ctx, id)
		default:
			found = a.Cart.RemoveFromCart(ctx, id)
		}
		if !found {
			return fmt.Errorf("product %d is not in the cart", id)
		}
	default:
		return fmt.Errorf("unknown cart command %q", sub)
	}

	printCart(a, out)
	return nil
}

func printCart(a *app.App, out io.Writer) {
	c := a.Cart.Cart()
	if c.IsEmpty() {
		fmt.Fprintln(out, "cart is empty")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range c.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", item.ID, item.Title, item.Price.StringFixed(2), item.Quantity, item.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(tw, "\t%d items\t\t\t%s\n", c.Count(), c.Total(a.Cart.Currency()))
	_ = tw.Flush()
}

func placeOrder(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var details domain.ShippingDetails
	fs.StringVar(&details.Address, "address", "", "shipping address")
	fs.StringVar(&details.City, "city", "", "city")
	fs.StringVar(&details.Phone, "phone", "", "phone number")
	fs.StringVar(&details.CardNumber, "card", "", "card number")
	fs.StringVar(&details.Expiry, "expiry", "", "card expiry")
	fs.StringVar(&details.CVV, "cvv", "", "card cvv")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(out, "contacting bank...")
	order, err := a.Checkout.PlaceOrder(ctx, details)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "order %s placed: %d items, %s, card ending %s\n", order.ID, len(order.Items), order.Total, order.CardLast4)
	return nil
}

func productID(args []string) (domain.ProductID, error) {
	if len(args) != 1 {
		return 0, errors.New("expected <id>")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("product id[%s] is not valid", args[0])
	}
	return domain.ProductID(id), nil
}

// describe prefers the user-facing message of auth errors.
func describe(err error) string {
	var (
		authErr     *domain.AuthenticationError
		creationErr *domain.AccountCreationError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &creationErr):
		return creationErr.Message
	}
	return err.Error()
}
