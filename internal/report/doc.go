// Package report turns aggregated results into the HTML pages written to the
// output file. Each page is a typed view model rendered by one embedded
// html/template; number formatting happens when the view is built so the
// templates only iterate and print.
package report
