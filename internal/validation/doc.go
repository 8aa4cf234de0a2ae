// Package validation checks the dataset and output locations before a run
// starts, so problems surface as fatal errors instead of after the operator
// has answered the prompts.
package validation
