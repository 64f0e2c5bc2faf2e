package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"brgydocs/internal/model"
)

const (
	exportSheet    = "Document Requests"
	exportPageSize = 500
	exportTime     = "2006-01-02 15:04"
)

var exportHeaders = []string{
	"ID", "Resident", "Document Type", "Purpose", "Status",
	"Requested At", "Released At", "Claimed By", "OR Numbers", "Amount Paid",
}

var exportWidths = []float64{8, 28, 24, 30, 18, 18, 18, 24, 22, 14}

func (s *documentRequestService) Export(ctx context.Context, q ListQuery, w io.Writer) error {
	f, err := q.filter()
	if err != nil {
		return err
	}
	f.Limit = exportPageSize
	f.Offset = 0

	var rows []model.RequestView
	for {
		page, err := s.requests.List(ctx, f)
		if err != nil {
			return err
		}
		rows = append(rows, page.Items...)
		if len(page.Items) < exportPageSize || len(rows) >= page.Total {
			break
		}
		f.Offset += exportPageSize
	}

	return writeWorkbook(w, rows, s.loc)
}

func writeWorkbook(w io.Writer, rows []model.RequestView, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			return err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheet, col, col, exportWidths[i]); err != nil {
			return err
		}
	}

	for i, v := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := exportRow(v, loc)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func exportRow(v model.RequestView, loc *time.Location) []any {
	var (
		orNumbers []string
		paid      = decimal.Zero
	)
	for _, p := range v.Payments {
		orNumbers = append(orNumbers, p.ORNumber)
		paid = paid.Add(p.Amount)
	}

	releasedAt, claimedBy := "", ""
	if v.ReleasedAt != nil {
		releasedAt = v.ReleasedAt.In(loc).Format(exportTime)
	}
	if v.ReleaseName != nil {
		claimedBy = *v.ReleaseName
	}

	return []any{
		v.ID,
		v.ResidentName,
		v.DocumentTypeName,
		v.Purpose,
		string(v.Status),
		v.RequestedAt.In(loc).Format(exportTime),
		releasedAt,
		claimedBy,
		strings.Join(orNumbers, ", "),
		paid.StringFixed(2),
	}
}
