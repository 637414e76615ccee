package bulkimport

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
)

// TemplateFilename is the download name offered to the operator.
const TemplateFilename = "bulk_import_template.zip"

var templateColumns = []string{
	"title", "price", "category", "brand", "description", "keywords", "image",
}

var templateSampleRow = []string{
	"Sample product", "19.99", "Accessories", "Acme",
	"Short description shown on the product page",
	"sample,starter", "sample.jpg",
}

// BuildTemplate produces the starter archive for a bulk import: a ZIP
// holding products.csv with the expected header and one example row.
func BuildTemplate() ([]byte, error) {
	var csvBuf bytes.Buffer
	w := csv.NewWriter(&csvBuf)
	if err := w.Write(templateColumns); err != nil {
		return nil, fmt.Errorf("write template header: %w", err)
	}
	if err := w.Write(templateSampleRow); err != nil {
		return nil, fmt.Errorf("write template sample: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush template csv: %w", err)
	}

	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)
	entry, err := zw.Create("products.csv")
	if err != nil {
		return nil, fmt.Errorf("create template entry: %w", err)
	}
	if _, err := entry.Write(csvBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("write template entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close template archive: %w", err)
	}
	return zipBuf.Bytes(), nil
}
