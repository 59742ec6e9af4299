package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"careerpath/domain/dataset"
	"careerpath/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader for the configured file; the extension picks the format
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{config: config, fileType: fileType, logger: logger}
}

// Load reads the file and builds the typed dataset
func (r *DataReader) Load() (*dataset.Dataset, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.FromRecords(data.Headers, data.Rows, r.config.TargetColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset from %s: %w", r.config.FilePath, err)
	}
	r.logger.Info("[DataReader] dataset ready: %d rows, %d feature columns, target %q",
		ds.NumRows(), len(ds.FeatureColumns()), ds.Target())
	return ds, nil
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("[DataReader] reading %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.config.FilePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData()
	}
}

// readExcelData reads the configured sheet, falling back to the first sheet of the workbook
func (r *DataReader) readExcelData() (*ExcelData, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", r.config.FilePath)
	}
	if !containsSheet(sheets, sheet) {
		r.logger.Warn("[DataReader] sheet %q not found, using %q", sheet, sheets[0])
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] sheet %s read in %.2fms (%d rows)",
		sheet, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows trims cells and drops rows that are entirely empty
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	var dataRows [][]string
	skipped := 0
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		empty := true
		for j := 0; j < len(headers) && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
			if cells[j] != "" {
				empty = false
			}
		}
		if empty {
			skipped++
			continue
		}
		dataRows = append(dataRows, cells)
	}

	if skipped > 0 {
		r.logger.Debug("[DataReader] skipped %d empty rows", skipped)
	}
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("%s contains no data rows", r.config.FilePath)
	}

	return &ExcelData{Headers: headers, Rows: dataRows}, nil
}

func containsSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}
