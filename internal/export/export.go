// Package export renders the sales ledger as downloadable tabular files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"puntoventa/internal/domain"
	"github.com/xuri/excelize/v2"
)

var headers = []string{"Número de Factura", "Cliente", "Fecha", "Método de Pago", "Total"}

var paymentLabels = map[string]string{
	domain.PaymentCash:     "Efectivo",
	domain.PaymentCard:     "Tarjeta",
	domain.PaymentTransfer: "Transferencia",
	domain.PaymentOther:    "Otro",
}

// PaymentLabel is the display name for a payment method; unknown methods pass
// through untranslated.
func PaymentLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}

func saleRow(s domain.Sale) []string {
	customer := "Cliente general"
	if s.CustomerName != nil && *s.CustomerName != "" {
		customer = *s.CustomerName
	}
	return []string{
		s.InvoiceNumber,
		customer,
		s.CreatedAt.Format("2006-01-02 15:04"),
		PaymentLabel(s.PaymentMethod),
		s.Total.StringFixed(2),
	}
}

// WriteCSV writes the ledger as comma-separated text with a header row.
func WriteCSV(w io.Writer, sales []domain.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, s := range sales {
		if err := cw.Write(saleRow(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the ledger as a single-sheet workbook with columns sized
// to their longest value.
func WriteXLSX(w io.Writer, sales []domain.Sale) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ventas"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	widths := make([]int, len(headers))
	writeRow := func(rowIdx int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			if len(v) > widths[col] {
				widths[col] = len(v)
			}
		}
		return nil
	}

	if err := writeRow(1, headers); err != nil {
		return err
	}
	for i, s := range sales {
		if err := writeRow(i+2, saleRow(s)); err != nil {
			return err
		}
	}

	for col := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(widths[col]+2)); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// Filename builds the download name for an export, e.g. ventas_2026-08-28.csv.
func Filename(format string, date string) string {
	return fmt.Sprintf("ventas_%s.%s", date, format)
}
