package presenter

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"invoice-extractor/internal/models"
)

const (
	entitiesSheet = "Entities"
	pagesSheet    = "Pages"
)

// XLSX writes the entity table and page texts as a workbook.
func XLSX(w io.Writer, report *models.Report) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", entitiesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	rows := Normalize(report.Entities)
	if report.Status != models.StatusRendered {
		rows = [][]string{pad(Header, len(Header)), {report.Message}}
	}
	for i, row := range rows {
		if err := setRow(f, entitiesSheet, i+1, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(pagesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := setRow(f, pagesSheet, 1, []string{"Page", "Content"}); err != nil {
		return err
	}
	for i, page := range report.Pages {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(pagesSheet, cell, &[]interface{}{page.Number, page.Content}); err != nil {
			return fmt.Errorf("failed to write page %d: %w", page.Number, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
