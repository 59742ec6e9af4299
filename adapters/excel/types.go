package excel

// ExcelData is the raw sheet content: trimmed headers and string rows
type ExcelData struct {
	Headers []string
	Rows    [][]string
}
