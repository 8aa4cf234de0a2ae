// Package dataset loads the marks table and selects records from it.
//
// A dataset is a CSV file or the first sheet of an .xlsx workbook with a
// header row naming the columns "Student id", "Course id" and "Marks".
// Column order is free and surrounding whitespace in names and values is
// ignored. Any unreadable file, missing column or unparseable value is a
// LOAD error; there is no partial table.
package dataset
