package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/grupoterra/cotizador-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	quotationRepo repository.QuotationRepository
}

func NewExportService(quotationRepo repository.QuotationRepository) *ExportService {
	return &ExportService{quotationRepo: quotationRepo}
}

// ExportQuotationsCSV exports the filtered quotation list as CSV.
func (s *ExportService) ExportQuotationsCSV(ctx context.Context, query *repository.ListQuery) ([]byte, string, error) {
	quotations, _, err := s.quotationRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Reporte de Cotizaciones", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{
		"ID", "Fecha", "Cliente", "Proyecto", "Manzana", "Lote", "Área",
		"Precio Unitario", "Precio Total", "Descuento", "Precio Final",
		"Prima %", "Meses", "Cuota Mensual", "Asesor", "Estado",
	})

	for _, q := range quotations {
		advisorName := ""
		if q.Advisor != nil {
			advisorName = q.Advisor.FullName
		}
		_ = writer.Write([]string{
			fmt.Sprintf("%d", q.ID),
			q.QuotationDate,
			q.Lead.FullName,
			q.Project.Name,
			q.Block.Name,
			q.Lot.Name,
			fmt.Sprintf("%.2f", q.Area),
			fmt.Sprintf("%.2f", q.UnitPrice),
			fmt.Sprintf("%.2f", q.TotalPrice),
			fmt.Sprintf("%.2f", q.Discount),
			fmt.Sprintf("%.2f", q.FinalPrice),
			fmt.Sprintf("%.2f", q.DownPaymentPct),
			fmt.Sprintf("%d", q.MonthsFinanced),
			fmt.Sprintf("%.2f", q.MonthlyPayment),
			advisorName,
			q.Status,
		})
	}

	writer.Flush()

	filename := fmt.Sprintf("cotizaciones_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportQuotationsXLSX exports the filtered quotation list as a spreadsheet.
func (s *ExportService) ExportQuotationsXLSX(ctx context.Context, query *repository.ListQuery) ([]byte, string, error) {
	quotations, _, err := s.quotationRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cotizaciones"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{
		"ID", "Fecha", "Cliente", "Proyecto", "Manzana", "Lote", "Área",
		"Precio Unitario", "Precio Total", "Descuento", "Precio Final",
		"Prima %", "Meses", "Cuota Mensual", "Asesor", "Estado",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, q := range quotations {
		advisorName := ""
		if q.Advisor != nil {
			advisorName = q.Advisor.FullName
		}
		values := []interface{}{
			q.ID, q.QuotationDate, q.Lead.FullName, q.Project.Name,
			q.Block.Name, q.Lot.Name, q.Area, q.UnitPrice, q.TotalPrice,
			q.Discount, q.FinalPrice, q.DownPaymentPct, q.MonthsFinanced,
			q.MonthlyPayment, advisorName, q.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("cotizaciones_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportQuotationXLSX exports a single quotation as a one-page spreadsheet.
func (s *ExportService) ExportQuotationXLSX(ctx context.Context, id uint) ([]byte, string, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", ErrNotFound
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cotización"
	_ = f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Cotización #%d", q.ID))
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	rows := [][2]interface{}{
		{"Fecha", q.QuotationDate},
		{"Cliente", q.Lead.FullName},
		{"Proyecto", q.Project.Name},
		{"Manzana", q.Block.Name},
		{"Lote", q.Lot.Name},
		{"Área", q.Area},
		{"Precio Unitario", q.UnitPrice},
		{"Precio Total", q.TotalPrice},
		{"Descuento", q.Discount},
		{"Precio Final", q.FinalPrice},
		{"Prima %", q.DownPaymentPct},
		{"Meses Financiados", q.MonthsFinanced},
		{"Monto Financiado", q.AmountFinanced},
		{"Cuota Mensual", q.MonthlyPayment},
		{"Tasa de Cambio", q.ExchangeRate},
		{"Moneda", q.Currency},
	}
	for i, r := range rows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", i+3), r[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+3), r[1])
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("cotizacion_%d.xlsx", q.ID)
	return buf.Bytes(), filename, nil
}
