package dataset

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "gradereport/internal/errors"
)

// SelectByStudent returns the records of one student in table order.
// An empty result means the student is not in the dataset.
func SelectByStudent(table *Table, id int) []Record {
	return selectWhere(table, func(r Record) bool { return r.StudentID == id })
}

// SelectByCourse returns the records of one course in table order.
// An empty result means the course is not in the dataset.
func SelectByCourse(table *Table, id int) []Record {
	return selectWhere(table, func(r Record) bool { return r.CourseID == id })
}

func selectWhere(table *Table, keep func(Record) bool) []Record {
	if table == nil {
		return nil
	}

	var out []Record
	for _, r := range table.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ParseID parses an operator-supplied id
func ParseID(text string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, apperrors.NewInputError(fmt.Sprintf("id %q is not an integer", text), apperrors.ErrInvalidID)
	}
	return id, nil
}
