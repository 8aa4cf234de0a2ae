// Package app wires configuration, logging, tracing and metrics around the
// report service and runs one request per process.
//
// # Flow
//
//	1. Load configuration (defaults, YAML file, environment)
//	2. Initialize logging and tracing
//	3. Load the dataset; failure here is fatal
//	4. Decide the request: student report, course report or error page
//	5. Write the histogram (course reports only), then the HTML page
//
// Decide is pure; Run performs the writes through a files.Sink so tests can
// capture output in memory. Prompting is left to the caller.
//
// # Error Handling
//
// Invalid options, unparseable ids and unknown ids become the error page and
// an Outcome with exit code 2. Errors returned by NewApplication and Run are
// fatal. The app never calls os.Exit itself.
package app
