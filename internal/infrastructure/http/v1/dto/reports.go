package dto

import (
	"stockbook/internal/domain/reports"
)

// Report output formats.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ReportQuery is shared by all report endpoints. Stock reports ignore the period.
type ReportQuery struct {
	PeriodQuery
	Format string `form:"format"`
}

// XLSX reports whether a workbook download was requested.
func (q ReportQuery) XLSX() bool {
	return q.Format == FormatXLSX
}

// ToFilter converts the query for reports.Service.
func (q ReportQuery) ToFilter() (reports.Filter, error) {
	period, err := q.Range()
	if err != nil {
		return reports.Filter{}, err
	}
	return reports.Filter{Period: period}, nil
}
