package importers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/extrame/xls"
)

// SheetReader returns the first-column value of every row, one slice per sheet.
type SheetReader func(r io.ReadSeeker) ([][]string, error)

// ExcelParser reads legacy .xls workbooks. The first column of every row in
// every sheet is logged, but no document is produced, so an excel upload
// always stores zero documents.
type ExcelParser struct {
	readSheets SheetReader
}

func NewExcelParser() *ExcelParser {
	return &ExcelParser{readSheets: readXLSFirstColumns}
}

// NewExcelParserWithReader swaps the workbook decoder, mostly for tests.
func NewExcelParserWithReader(reader SheetReader) *ExcelParser {
	return &ExcelParser{readSheets: reader}
}

func (p *ExcelParser) Format() string { return "excel" }

func (p *ExcelParser) Parse(r io.Reader) ([]RawDocument, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read workbook: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	sheets, err := p.readSheets(rs)
	if err != nil {
		return nil, err
	}

	for i, rows := range sheets {
		for _, value := range rows {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			log.Printf("[IMPORT] excel sheet %d: %s", i, value)
		}
	}

	// TODO: store the logged rows once excel imports are meant to create documents.
	return nil, nil
}

func readXLSFirstColumns(r io.ReadSeeker) (sheets [][]string, err error) {
	// The decoder panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			sheets, err = nil, fmt.Errorf("failed to decode workbook: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var values []string
		for j := 0; j <= int(sheet.MaxRow); j++ {
			row := sheet.Row(j)
			if row == nil {
				continue
			}
			values = append(values, row.Col(0))
		}
		sheets = append(sheets, values)
	}

	return sheets, nil
}

var _ Parser = (*ExcelParser)(nil)
