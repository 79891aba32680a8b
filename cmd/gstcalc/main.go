// Command gstcalc runs the GST engine from the shell without a database.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/middleware"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/services"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("gstcalc failed")
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "gstcalc",
		Usage: "GST calculations for food distribution invoices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "state",
				Usage:   "seller state code",
				Value:   models.DefaultSellerStateCode,
				EnvVars: []string{"COMPANY_STATE_CODE"},
			},
		},
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "item",
				Usage: "compute a sales line",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "product", Aliases: []string{"p"}, Required: true},
					&cli.Float64Flag{Name: "qty", Aliases: []string{"q"}, Required: true},
					&cli.Float64Flag{Name: "rate", Usage: "unit rate, defaults to the catalog rate"},
					&cli.StringFlag{Name: "expiry", Usage: "expiry date (YYYY-MM-DD)", Required: true},
				},
				Action: func(c *cli.Context) error {
					tax, err := taxService(c)
					if err != nil {
						return err
					}
					expiry, err := middleware.ParseDate(c.String("expiry"))
					if err != nil {
						return fmt.Errorf("invalid expiry: %w", err)
					}
					line, err := tax.CalculateItem(&services.CalculateItemRequest{
						Product:    c.String("product"),
						Qty:        c.Float64("qty"),
						Rate:       c.Float64("rate"),
						ExpiryDate: &expiry,
					})
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, line)
				},
			},
			{
				Name:  "purchase",
				Usage: "compute a purchase line",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "product", Aliases: []string{"p"}, Required: true},
					&cli.Float64Flag{Name: "qty", Aliases: []string{"q"}, Required: true},
					&cli.Float64Flag{Name: "rate", Required: true},
					&cli.Float64Flag{Name: "discount", Usage: "absolute discount on the line"},
					&cli.Float64Flag{Name: "gst-rate", Usage: "slab for products outside the catalog", Value: -1},
				},
				Action: func(c *cli.Context) error {
					tax, err := taxService(c)
					if err != nil {
						return err
					}
					req := &services.CalculatePurchaseItemRequest{
						Product:  c.String("product"),
						Qty:      c.Float64("qty"),
						Rate:     c.Float64("rate"),
						Discount: c.Float64("discount"),
					}
					if rate := c.Float64("gst-rate"); rate >= 0 {
						req.GSTRate = &rate
					}
					line, err := tax.CalculatePurchaseItem(req)
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, line)
				},
			},
			{
				Name:      "gstin",
				Usage:     "validate a GSTIN",
				ArgsUsage: "GSTIN",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("exactly one GSTIN is required")
					}
					tax, err := taxService(c)
					if err != nil {
						return err
					}
					gstin := c.Args().First()
					if err := tax.ValidateGSTIN(gstin); err != nil {
						return fmt.Errorf("%s: %w", gstin, err)
					}
					fmt.Fprintf(c.App.Writer, "%s: valid, state %s\n", gstin, gst.StateCodeFromGSTIN(gstin))
					return nil
				},
			},
			{
				Name:  "invoice-number",
				Usage: "print an invoice number",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Value: "INV"},
					&cli.StringFlag{Name: "date", Usage: "invoice date (YYYY-MM-DD), default today"},
					&cli.IntFlag{Name: "sequence", Value: 1},
					&cli.BoolFlag{Name: "unique", Usage: "random suffix instead of a sequence"},
				},
				Action: func(c *cli.Context) error {
					var date time.Time
					if value := c.String("date"); value != "" {
						parsed, err := middleware.ParseDate(value)
						if err != nil {
							return fmt.Errorf("invalid date: %w", err)
						}
						date = parsed
					}
					number := gst.GenerateInvoiceNumber(c.String("company"), date, c.Int("sequence"))
					if c.Bool("unique") {
						number = gst.GenerateUniqueInvoiceNumber(c.String("company"), date)
					}
					fmt.Fprintln(c.App.Writer, number)
					return nil
				},
			},
			{
				Name:  "catalog",
				Usage: "list the built-in products",
				Action: func(c *cli.Context) error {
					products := gst.CatalogProducts()
					sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
					for _, p := range products {
						fmt.Fprintf(c.App.Writer, "%-14s %8.2f/%-7s GST %4.1f%%  HSN %s\n", p.Name, p.Rate, p.Unit, p.GSTRate, p.HSNCode)
					}
					return nil
				},
			},
		},
	}
}

func taxService(c *cli.Context) (*services.TaxService, error) {
	return services.NewTaxServiceForCountry("IN", c.String("state"))
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
