package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// DatasetHeader is the canonical CSV header of the marks dataset
const DatasetHeader = "Student id, Course id, Marks"

// SampleRows is a small dataset covering two students and two courses
var SampleRows = []string{
	"1001, 2001, 56",
	"1002, 2001, 78",
	"1001, 2002, 91",
	"1003, 2001, 78",
	"1002, 2002, 65",
}

// WriteDataset writes a CSV dataset with the canonical header and rows into
// a temporary directory and returns its path.
func WriteDataset(t testing.TB, rows ...string) string {
	t.Helper()
	return WriteFile(t, "data.csv", DatasetHeader+"\n"+strings.Join(rows, "\n")+"\n")
}

// WriteFile writes content under name in a fresh temporary directory
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// Row formats one dataset row
func Row(studentID, courseID int, marks float64) string {
	return fmt.Sprintf("%d, %d, %g", studentID, courseID, marks)
}
