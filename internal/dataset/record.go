package dataset

// Record is one row of the dataset
type Record struct {
	StudentID int
	CourseID  int
	Marks     float64
}

// Table is the loaded dataset. It is not modified after Load returns.
type Table struct {
	Records []Record

	// FloatMarks is true when any marks value in the source is non-integral.
	// Reports then print every marks value as a float.
	FloatMarks bool
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.Records)
}
