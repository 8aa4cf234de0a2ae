package dataset

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "gradereport/internal/errors"
)

// readXLSX returns the rows of the first sheet of a workbook, header included
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("open dataset %s", path),
			fmt.Errorf("%w: %v", apperrors.ErrDatasetUnreadable, err))
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close workbook", slog.String("path", path), slog.String("error", err.Error()))
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, apperrors.NewLoadError(fmt.Sprintf("workbook %s has no sheets", path), apperrors.ErrMalformedDataset)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("read sheet %s", sheetName),
			fmt.Errorf("%w: %v", apperrors.ErrMalformedDataset, err))
	}

	return rows, nil
}
