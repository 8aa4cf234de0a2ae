// Package histogram draws the course marks histogram as a PNG bar chart
// using go-chart, one bar per distinct marks value.
package histogram
