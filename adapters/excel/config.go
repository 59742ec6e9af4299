package excel

// ExcelConfig holds configuration for the dataset source
type ExcelConfig struct {
	FilePath     string `json:"file_path"`
	Sheet        string `json:"sheet"`
	TargetColumn string `json:"target_column"`
}

// DefaultExcelConfig returns the defaults of the career dataset workbook
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Sheet:        "in",
		TargetColumn: "Predicted_Career_Field",
	}
}
