package report

import (
	"html/template"
	"strconv"
	"strings"

	"gradereport/internal/dataset"
	"gradereport/internal/stats"
)

// Kind names the page a view renders
type Kind string

const (
	KindStudent Kind = "student"
	KindCourse  Kind = "course"
	KindError   Kind = "error"
)

// View is implemented by every page model
type View interface {
	Kind() Kind
}

// RecordRow is one table row of the student page, already formatted
type RecordRow struct {
	StudentID string
	CourseID  string
	Marks     string
}

// StudentView lists a student's records with their total
type StudentView struct {
	Rows  []RecordRow
	Total string
}

// CourseView shows a course's average and maximum with its histogram image.
// ChartSrc comes from configuration, so file URLs pass through unescaped.
type CourseView struct {
	Average  string
	Maximum  string
	ChartSrc template.URL
}

// ErrorView is the static "Wrong Inputs" page
type ErrorView struct{}

func (StudentView) Kind() Kind { return KindStudent }
func (CourseView) Kind() Kind  { return KindCourse }
func (ErrorView) Kind() Kind   { return KindError }

// NewStudentView formats records and their total. floatMarks selects the
// float rendering of marks, matching the dataset's marks column.
func NewStudentView(records []dataset.Record, total float64, floatMarks bool) StudentView {
	rows := make([]RecordRow, len(records))
	for i, r := range records {
		rows[i] = RecordRow{
			StudentID: strconv.Itoa(r.StudentID),
			CourseID:  strconv.Itoa(r.CourseID),
			Marks:     FormatMarks(r.Marks, floatMarks),
		}
	}
	return StudentView{Rows: rows, Total: FormatMarks(total, floatMarks)}
}

// NewCourseView formats a course summary. The average is always a float.
func NewCourseView(summary stats.CourseSummary, floatMarks bool, chartSrc string) CourseView {
	return CourseView{
		Average:  FormatMarks(summary.Average, true),
		Maximum:  FormatMarks(summary.Maximum, floatMarks),
		ChartSrc: template.URL(chartSrc),
	}
}

// FormatMarks prints v as the shortest decimal that round-trips. With
// asFloat set, whole numbers keep a trailing ".0".
func FormatMarks(v float64, asFloat bool) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if asFloat && !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
