// Package export renders reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/reports"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// Filename builds a download name such as "stock_20240315_120000.xlsx".
func Filename(report string, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", report, at.Format("20060102_150405"))
}

// sheet accumulates rows into the first sheet of a new workbook.
type sheet struct {
	f    *excelize.File
	name string
	row  int
}

func newSheet(title string) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), title); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	return &sheet{f: f, name: title, row: 1}, nil
}

func (s *sheet) append(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", s.row, err)
	}
	s.row++
	return nil
}

// header writes the column titles and freezes them.
func (s *sheet) header(titles ...string) error {
	values := make([]any, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	if err := s.append(values...); err != nil {
		return err
	}
	return s.f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (s *sheet) flush(w io.Writer) error {
	defer func() { _ = s.f.Close() }()
	if err := s.f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func money(m types.Money) float64 { return m.InexactFloat64() }

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteStock writes the stock snapshot followed by a totals row.
func WriteStock(w io.Writer, r *reports.StockReport) error {
	s, err := newSheet("Stock")
	if err != nil {
		return err
	}
	if err := s.header("Article", "Name", "Category", "Stock", "Min stock", "Retail price", "Value"); err != nil {
		return err
	}
	for _, it := range r.Items {
		if err := s.append(it.Article, it.Name, it.Category, it.CurrentStock, it.MinStock, money(it.RetailPrice), money(it.Value)); err != nil {
			return err
		}
	}
	if err := s.append("Total", "", "", r.TotalQuantity, "", "", money(r.TotalValue)); err != nil {
		return err
	}
	return s.flush(w)
}

// WriteLowStock writes the products matched by the low-stock rule.
func WriteLowStock(w io.Writer, r *reports.LowStockReport) error {
	s, err := newSheet("Low stock")
	if err != nil {
		return err
	}
	if err := s.header("Article", "Name", "Category", "Stock", "Min stock"); err != nil {
		return err
	}
	for _, it := range r.Items {
		if err := s.append(it.Article, it.Name, it.Category, it.CurrentStock, it.MinStock); err != nil {
			return err
		}
	}
	return s.flush(w)
}

// WriteMovements writes the movement ledger. Sold quantities are negative so
// the Quantity column sums to the net change.
func WriteMovements(w io.Writer, r *reports.MovementReport) error {
	s, err := newSheet("Movements")
	if err != nil {
		return err
	}
	if err := s.header("Date", "Kind", "Document", "Article", "Product", "Quantity", "Price", "Total", "Counterparty"); err != nil {
		return err
	}
	for _, it := range r.Items {
		qty := it.Quantity
		if it.Kind == reports.KindSale {
			qty = -qty
		}
		if err := s.append(
			it.Date.Format(dateLayout), it.Kind, it.DocumentNumber, optional(it.Article), optional(it.ProductName),
			qty, money(it.Price), money(it.Total), optional(it.Counterparty),
		); err != nil {
			return err
		}
	}
	if err := s.append("Received", "", "", "", "", r.TotalReceived); err != nil {
		return err
	}
	if err := s.append("Sold", "", "", "", "", r.TotalSold); err != nil {
		return err
	}
	return s.flush(w)
}

// WriteSales writes the sales summary.
func WriteSales(w io.Writer, r *reports.SalesReport) error {
	s, err := newSheet("Sales")
	if err != nil {
		return err
	}
	if err := s.header("Date", "Number", "Client", "Lines", "Amount"); err != nil {
		return err
	}
	for _, it := range r.Items {
		if err := s.append(it.Date.Format(dateLayout), it.DocumentNumber, it.ClientName, it.ItemsCount, money(it.TotalAmount)); err != nil {
			return err
		}
	}
	if err := s.append("Total", "", "", r.Count, money(r.TotalAmount)); err != nil {
		return err
	}
	return s.flush(w)
}
