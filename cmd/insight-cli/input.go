package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	insight "github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004"
)

// readFile reads path, or standard input when path is "-".
func readFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// loadDataset decodes a JSON array of row objects. When summaryPath is empty
// the column summary is inferred from the rows; otherwise every row must
// agree with the supplied summary.
func loadDataset(dataPath, summaryPath string) (*insight.Dataset, error) {
	data, err := readFile(dataPath)
	if err != nil {
		return nil, err
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing rows in %s: %w", dataPath, err)
	}
	ds := insight.FromMaps(records, nil)

	if summaryPath == "" {
		return ds.WithSummary(insight.Summarize(ds)), nil
	}
	raw, err := readFile(summaryPath)
	if err != nil {
		return nil, err
	}
	var summary insight.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("parsing summary in %s: %w", summaryPath, err)
	}
	for i, row := range ds.Rows() {
		if err := summary.Validate(row); err != nil {
			return nil, fmt.Errorf("row %d of %s does not match %s: %w", i+1, dataPath, summaryPath, err)
		}
	}
	return ds.WithSummary(&summary), nil
}

func loadDescriptor(path string) (*insight.Descriptor, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return insight.ParseDescriptor(data)
}
