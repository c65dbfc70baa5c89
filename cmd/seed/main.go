// Package main seeds the database with demo suppliers, products and a few
// documents. It refuses to run against a database that already has suppliers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stockbook/internal/app"
	"stockbook/internal/config"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/product"
	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/domain/reservations"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/pkg/logger"
)

var demoSuppliers = [][]any{
	{"Northwind Hardware", "Olena Kovalenko", "+380 44 000 11 22", "sales@northwind.example", "Kyiv, Khreshchatyk 1"},
	{"Baltic Fasteners", "Jonas Petraitis", "+370 5 000 3344", "orders@baltic.example", "Vilnius, Gedimino 5"},
}

var demoProducts = []product.Product{
	{Article: "BLT-M8-40", Name: "Bolt M8x40", PurchasePrice: types.MustMoney("0.12"), RetailPrice: types.MustMoney("0.25"), Category: "fasteners", MinStock: 200},
	{Article: "NUT-M8", Name: "Nut M8", PurchasePrice: types.MustMoney("0.04"), RetailPrice: types.MustMoney("0.09"), Category: "fasteners", MinStock: 200},
	{Article: "DRL-600", Name: "Drill 600W", PurchasePrice: types.MustMoney("38.00"), RetailPrice: types.MustMoney("54.90"), Category: "tools", MinStock: 3},
	{Article: "GLV-L", Name: "Work gloves L", PurchasePrice: types.MustMoney("1.10"), RetailPrice: types.MustMoney("2.40"), Category: "safety", MinStock: 20},
}

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, postgres.MigrateUp); err != nil {
		pool.Close()
		log.Fatalw("failed to migrate", "error", err)
	}

	services, err := app.New(pool, app.Options{
		ReceiptPrefix: cfg.Documents.ReceiptPrefix,
		SalePrefix:    cfg.Documents.SalePrefix,
	})
	if err != nil {
		pool.Close()
		log.Fatalw("failed to build services", "error", err)
	}

	if err := seed(ctx, services, log); err != nil {
		pool.Close()
		log.Fatalw("seeding failed", "error", err)
	}
	log.Info("seeding completed successfully")
}

func seed(ctx context.Context, s *app.App, log *logger.Logger) error {
	existing, err := s.Suppliers.List(ctx, domain.ListFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Infow("suppliers already present, skipping", "count", len(existing))
		return nil
	}

	err = s.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.Batch.CopyFromSlice(ctx, "suppliers",
			[]string{"name", "contact_person", "phone", "email", "address"}, demoSuppliers)
		if err != nil {
			return err
		}
		log.Infow("suppliers loaded", "count", n)
		return nil
	})
	if err != nil {
		return err
	}

	suppliers, err := s.Suppliers.List(ctx, domain.ListFilter{OrderBy: "name"})
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(demoProducts))
	for i := range demoProducts {
		p := demoProducts[i]
		p.Supplier = suppliers[i%len(suppliers)].Name
		if err := s.Products.Create(ctx, &p); err != nil {
			return fmt.Errorf("product %s: %w", p.Article, err)
		}
		ids = append(ids, p.ID)
	}

	rc, err := s.Receipts.Create(ctx, receipt.CreateInput{
		SupplierID: suppliers[0].ID,
		Lines: []documents.Line{
			{ProductID: ids[0], Quantity: 500, UnitPrice: demoProducts[0].PurchasePrice},
			{ProductID: ids[1], Quantity: 500, UnitPrice: demoProducts[1].PurchasePrice},
			{ProductID: ids[2], Quantity: 5, UnitPrice: demoProducts[2].PurchasePrice},
			{ProductID: ids[3], Quantity: 10, UnitPrice: demoProducts[3].PurchasePrice},
		},
	})
	if err != nil {
		return fmt.Errorf("receipt: %w", err)
	}
	log.Infow("demo receipt", "number", rc.Number, "total", rc.Total)

	sl, err := s.Sales.Create(ctx, sale.CreateInput{
		ClientName: "Demo Client",
		Lines: []documents.Line{
			{ProductID: ids[0], Quantity: 40, UnitPrice: demoProducts[0].RetailPrice},
			{ProductID: ids[1], Quantity: 40, UnitPrice: demoProducts[1].RetailPrice},
			{ProductID: ids[2], Quantity: 3, UnitPrice: demoProducts[2].RetailPrice},
		},
	})
	if err != nil {
		return fmt.Errorf("sale: %w", err)
	}
	log.Infow("demo sale", "number", sl.Number, "total", sl.Total)

	res, err := s.Reservations.Create(ctx, reservations.CreateInput{
		ClientName: "Demo Client",
		ProductID:  ids[3],
		Quantity:   4,
	})
	if err != nil {
		return fmt.Errorf("reservation: %w", err)
	}
	log.Infow("demo reservation", "id", res.ID, "expires", res.ExpiryDate.Format(types.DateLayout))
	return nil
}
