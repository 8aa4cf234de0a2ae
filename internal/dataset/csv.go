package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	apperrors "gradereport/internal/errors"
)

// readCSV returns every record of a CSV file, header included
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("open dataset %s", path),
			fmt.Errorf("%w: %v", apperrors.ErrDatasetUnreadable, err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("parse dataset %s", path),
			fmt.Errorf("%w: %v", apperrors.ErrMalformedDataset, err))
	}

	return rows, nil
}
