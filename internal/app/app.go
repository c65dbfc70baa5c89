// Package app wires repositories and domain services on top of a pool.
// The server and the seed tool share it.
package app

import (
	"context"
	"fmt"

	"stockbook/internal/domain/catalogs/product"
	"stockbook/internal/domain/catalogs/supplier"
	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/domain/registers/stock"
	"stockbook/internal/domain/reports"
	"stockbook/internal/domain/reservations"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/catalog_repo"
	"stockbook/internal/infrastructure/storage/postgres/document_repo"
	"stockbook/internal/infrastructure/storage/postgres/register_repo"
	"stockbook/internal/infrastructure/storage/postgres/report_repo"
	"stockbook/pkg/numerator"
)

// Recorder receives document and reservation events. *metrics.Metrics implements it.
type Recorder interface {
	documents.Recorder
	reservations.Recorder
}

// Options tune the wiring.
type Options struct {
	ReceiptPrefix string
	SalePrefix    string

	// LowStockRule is a CEL expression; empty selects the default rule
	LowStockRule string

	// Recorder may be nil
	Recorder Recorder
}

// App holds the domain services.
type App struct {
	TxManager *postgres.TxManager
	Batch     *postgres.BatchInserter

	Products     *product.Service
	Suppliers    *supplier.Service
	Ledger       *stock.Service
	Receipts     *receipt.Service
	Sales        *sale.Service
	Reservations *reservations.Service
	Reports      *reports.Service
}

// New builds every service over pool.
func New(pool *postgres.Pool, opts Options) (*App, error) {
	var lowStock *reports.LowStockRule
	if opts.LowStockRule != "" {
		rule, err := reports.NewLowStockRule(opts.LowStockRule)
		if err != nil {
			return nil, fmt.Errorf("low stock rule: %w", err)
		}
		lowStock = rule
	}

	txm := postgres.NewTxManager(pool)

	// Sequence upserts run on the document's own transaction.
	numbers := numerator.NewWithResolver(func(ctx context.Context) numerator.Querier {
		return txm.GetQuerier(ctx)
	})

	var docRec documents.Recorder
	var resRec reservations.Recorder
	if opts.Recorder != nil {
		docRec, resRec = opts.Recorder, opts.Recorder
	}

	supplierRepo := catalog_repo.NewSupplierRepo(txm)
	ledger := stock.NewService(register_repo.NewStockRepo(txm), txm)

	deps := documents.Deps{
		TxManager: txm,
		Ledger:    ledger,
		Numerator: numbers,
		Recorder:  docRec,
	}

	return &App{
		TxManager:    txm,
		Batch:        postgres.NewBatchInserter(txm),
		Products:     product.NewService(catalog_repo.NewProductRepo(txm), txm),
		Suppliers:    supplier.NewService(supplierRepo, txm),
		Ledger:       ledger,
		Receipts:     receipt.NewService(document_repo.NewReceiptRepo(txm), supplierRepo, deps, opts.ReceiptPrefix),
		Sales:        sale.NewService(document_repo.NewSaleRepo(txm), deps, opts.SalePrefix),
		Reservations: reservations.NewService(document_repo.NewReservationRepo(txm), ledger, txm, resRec),
		Reports:      reports.NewService(report_repo.NewReportRepo(txm), txm, lowStock),
	}, nil
}
