package adapters

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"FairLens/internal/fairness"
)

// TabularSource reads audit records from a CSV dataset with a header row.
// The group and prediction columns are required; the ground-truth column is
// optional and may contain empty cells for unlabeled rows.
type TabularSource struct {
	r        io.Reader
	groupCol string
	yTrueCol string
	yPredCol string
}

// NewTabularSource creates a CSV record source.
func NewTabularSource(r io.Reader, groupCol, yTrueCol, yPredCol string) *TabularSource {
	return &TabularSource{
		r:        r,
		groupCol: groupCol,
		yTrueCol: yTrueCol,
		yPredCol: yPredCol,
	}
}

// Read parses the dataset into audit records. Malformed rows abort the
// whole read; a partially parsed dataset must never be audited silently.
func (s *TabularSource) Read(ctx context.Context) ([]fairness.GroupRecord, error) {
	cr := csv.NewReader(s.r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fairness.NewValidationError("dataset", fmt.Sprintf("read header: %v", err))
	}

	groupIdx := columnIndex(header, s.groupCol)
	if groupIdx < 0 {
		return nil, fairness.NewValidationError("group_column", fmt.Sprintf("column %q not found", s.groupCol))
	}
	predIdx := columnIndex(header, s.yPredCol)
	if predIdx < 0 {
		return nil, fairness.NewValidationError("y_pred_column", fmt.Sprintf("column %q not found", s.yPredCol))
	}
	truthIdx := -1
	if s.yTrueCol != "" {
		truthIdx = columnIndex(header, s.yTrueCol)
		if truthIdx < 0 {
			return nil, fairness.NewValidationError("y_true_column", fmt.Sprintf("column %q not found", s.yTrueCol))
		}
	}

	var records []fairness.GroupRecord
	row := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fairness.NewValidationError("dataset", fmt.Sprintf("row %d: %v", row+1, err))
		}
		row++

		group := strings.TrimSpace(fields[groupIdx])
		if group == "" {
			return nil, fairness.NewValidationError("dataset", fmt.Sprintf("row %d: empty group label", row))
		}

		pred, err := parseBinary(fields[predIdx])
		if err != nil {
			return nil, fairness.NewValidationError("dataset", fmt.Sprintf("row %d: y_pred %v", row, err))
		}

		rec := fairness.GroupRecord{Group: group, YPred: pred}
		if truthIdx >= 0 {
			cell := strings.TrimSpace(fields[truthIdx])
			if cell != "" {
				truth, err := parseBinary(cell)
				if err != nil {
					return nil, fairness.NewValidationError("dataset", fmt.Sprintf("row %d: y_true %v", row, err))
				}
				rec.YTrue = &truth
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fairness.NewValidationError("dataset", "no data rows")
	}
	return records, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func parseBinary(cell string) (int, error) {
	switch strings.TrimSpace(cell) {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	}
	return 0, fmt.Errorf("must be 0 or 1, got %q", strings.TrimSpace(cell))
}
