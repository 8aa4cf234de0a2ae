package dataset

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "gradereport/internal/errors"
)

// Canonical column names. Headers match after trimming and case folding, so the
// legacy "Student id", " Course id", " Marks" header loads unchanged.
const (
	ColumnStudentID = "student id"
	ColumnCourseID  = "course id"
	ColumnMarks     = "marks"
)

// Load reads the dataset at path. Files ending in .xlsx are read from their
// first sheet; anything else is parsed as CSV.
func Load(path string) (*Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	table, err := parseRows(rows)
	if err != nil {
		return nil, err
	}

	slog.Debug("Dataset parsed",
		slog.String("path", path),
		slog.Int("records", table.Len()),
		slog.Bool("float_marks", table.FloatMarks))

	return table, nil
}

// columnIndex maps the canonical columns to their positions in a header row
type columnIndex struct {
	student, course, marks int
}

func findColumns(header []string) (columnIndex, error) {
	idx := columnIndex{student: -1, course: -1, marks: -1}

	for i, col := range header {
		switch normalizeHeader(col) {
		case ColumnStudentID:
			idx.student = i
		case ColumnCourseID:
			idx.course = i
		case ColumnMarks:
			idx.marks = i
		}
	}

	var missing []string
	if idx.student < 0 {
		missing = append(missing, ColumnStudentID)
	}
	if idx.course < 0 {
		missing = append(missing, ColumnCourseID)
	}
	if idx.marks < 0 {
		missing = append(missing, ColumnMarks)
	}
	if len(missing) > 0 {
		return idx, apperrors.NewLoadError(
			fmt.Sprintf("missing column(s) %s", strings.Join(missing, ", ")),
			apperrors.ErrMalformedDataset)
	}

	return idx, nil
}

func normalizeHeader(col string) string {
	col = strings.TrimPrefix(col, "\ufeff")
	return strings.ToLower(strings.TrimSpace(col))
}

// parseRows converts a header row plus data rows into a Table
func parseRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewLoadError("dataset has no header row", apperrors.ErrMalformedDataset)
	}

	idx, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	table := &Table{Records: make([]Record, 0, len(rows)-1)}
	need := max(idx.student, idx.course, idx.marks) + 1

	for i, row := range rows[1:] {
		line := i + 2 // 1-based, header is line 1
		if isBlank(row) {
			continue
		}
		if len(row) < need {
			return nil, apperrors.NewLoadError(
				fmt.Sprintf("line %d has %d fields, want at least %d", line, len(row), need),
				apperrors.ErrMalformedDataset).WithContext("line", line)
		}

		studentID, err := parseInt(row[idx.student])
		if err != nil {
			return nil, malformedValue(line, ColumnStudentID, row[idx.student])
		}
		courseID, err := parseInt(row[idx.course])
		if err != nil {
			return nil, malformedValue(line, ColumnCourseID, row[idx.course])
		}
		text := strings.TrimSpace(row[idx.marks])
		marks, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(marks) || math.IsInf(marks, 0) {
			return nil, malformedValue(line, ColumnMarks, row[idx.marks])
		}

		// A decimal point anywhere makes the whole column fractional
		if marks != math.Trunc(marks) || strings.ContainsAny(text, ".eE") {
			table.FloatMarks = true
		}
		table.Records = append(table.Records, Record{
			StudentID: studentID,
			CourseID:  courseID,
			Marks:     marks,
		})
	}

	return table, nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func malformedValue(line int, column, value string) error {
	return apperrors.NewLoadError(
		fmt.Sprintf("line %d: invalid %s %q", line, column, value),
		apperrors.ErrMalformedDataset).
		WithContext("line", line).
		WithContext("column", column)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
