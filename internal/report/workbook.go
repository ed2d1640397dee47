package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/xuri/excelize/v2"

	"fieldbook/internal/config"
)

const missingImageText = "No image available"

// XLSXWriter renders assembled documents as a single-sheet workbook with one
// page per section.
type XLSXWriter struct {
	sheet     string
	maxWidth  int
	maxHeight int
}

// NewXLSXWriter builds a writer using the configured sheet name and embedded
// image bounds.
func NewXLSXWriter(cfg *config.Config) *XLSXWriter {
	return &XLSXWriter{
		sheet:     cfg.Report.SheetName,
		maxWidth:  cfg.Report.ImageMaxWidth,
		maxHeight: cfg.Report.ImageMaxHeight,
	}
}

// Write renders doc to dest. Sections after the first start on a new printed
// page via a hard page break.
func (w *XLSXWriter) Write(doc *Document, dest string) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", w.sheet); err != nil {
		return fmt.Errorf("name report sheet: %w", err)
	}
	// Width units are characters, roughly 7px each.
	if err := file.SetColWidth(w.sheet, "A", "C", float64(w.maxWidth)/3/7+2); err != nil {
		return fmt.Errorf("size report columns: %w", err)
	}

	titleStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}
	labelStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create label style: %w", err)
	}

	row := 1
	for i, section := range doc.Sections {
		if i > 0 {
			if err := file.InsertPageBreak(w.sheet, "A"+strconv.Itoa(row)); err != nil {
				return fmt.Errorf("insert page break: %w", err)
			}
		}
		if row, err = w.writeSection(file, doc.Header, section, row, titleStyle, labelStyle); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(dest); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := file.SaveAs(dest); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) writeSection(file *excelize.File, header Header, section Section, row, titleStyle, labelStyle int) (int, error) {
	var err error
	if row, err = w.writeHeader(file, header, row, titleStyle); err != nil {
		return 0, err
	}

	if section.Kind == KindEvidence && section.StationLimits != "" {
		if err := w.writeLine(file, row, "Station Limits: "+section.StationLimits, 0); err != nil {
			return 0, err
		}
		row++
	}
	row++

	for _, slot := range section.Images {
		if err := w.writeLine(file, row, slot.Label, labelStyle); err != nil {
			return 0, err
		}
		row++
		if row, err = w.writeImage(file, slot, row); err != nil {
			return 0, err
		}
	}
	return row + 1, nil
}

func (w *XLSXWriter) writeHeader(file *excelize.File, header Header, row, titleStyle int) (int, error) {
	lines := []string{}
	if header.ProjectID != "" {
		lines = append(lines, "Project ID: "+header.ProjectID)
	}
	if header.ProjectName != "" {
		lines = append(lines, "Project: "+header.ProjectName)
	}
	if header.Location != "" {
		lines = append(lines, "Location: "+header.Location)
	}
	if header.ContractorName != "" {
		lines = append(lines, "Contractor: "+header.ContractorName)
	}
	if header.ProjectType != "" {
		lines = append(lines, "Project Type: "+header.ProjectType)
	}
	for _, line := range lines {
		if err := w.writeLine(file, row, line, 0); err != nil {
			return 0, err
		}
		row++
	}

	if err := w.writeLine(file, row, header.ItemTitle, titleStyle); err != nil {
		return 0, err
	}
	row++
	if header.ItemDetail != "" {
		if err := w.writeLine(file, row, header.ItemDetail, 0); err != nil {
			return 0, err
		}
		row++
	}
	return row, nil
}

// writeImage embeds the slot's picture fitted to the configured bounds, or
// the placeholder text when the file is missing or unreadable.
func (w *XLSXWriter) writeImage(file *excelize.File, slot ImageSlot, row int) (int, error) {
	if slot.Missing {
		if err := w.writeLine(file, row, missingImageText, 0); err != nil {
			return 0, err
		}
		return row + 1, nil
	}

	img, err := imaging.Open(slot.Path)
	if err != nil {
		// The file vanished or is not decodable; the report still ships.
		if err := w.writeLine(file, row, missingImageText, 0); err != nil {
			return 0, err
		}
		return row + 1, nil
	}

	fitted := imaging.Fit(img, w.maxWidth, w.maxHeight, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return 0, fmt.Errorf("encode embedded image %s: %w", slot.Path, err)
	}

	anchor := "A" + strconv.Itoa(row)
	err = file.AddPictureFromBytes(w.sheet, anchor, &excelize.Picture{
		Extension: ".png",
		File:      buf.Bytes(),
		Format:    &excelize.GraphicOptions{OffsetX: 4, OffsetY: 4},
	})
	if err != nil {
		return 0, fmt.Errorf("embed image %s: %w", slot.Path, err)
	}

	// Row heights are points; pixels convert at 0.75.
	height := float64(fitted.Bounds().Dy())*0.75 + 8
	if err := file.SetRowHeight(w.sheet, row, height); err != nil {
		return 0, fmt.Errorf("size image row: %w", err)
	}
	return row + 1, nil
}

func (w *XLSXWriter) writeLine(file *excelize.File, row int, text string, style int) error {
	cell := "A" + strconv.Itoa(row)
	if err := file.SetCellValue(w.sheet, cell, text); err != nil {
		return fmt.Errorf("write cell %s: %w", cell, err)
	}
	if err := file.MergeCell(w.sheet, cell, "C"+strconv.Itoa(row)); err != nil {
		return fmt.Errorf("merge cell %s: %w", cell, err)
	}
	if style != 0 {
		if err := file.SetCellStyle(w.sheet, cell, cell, style); err != nil {
			return fmt.Errorf("style cell %s: %w", cell, err)
		}
	}
	return nil
}
