// Package config provides configuration loading for gradereport.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Built-in defaults (lowest priority)
//
// A .env file in the working directory is loaded into the process
// environment before the environment is read.
//
// # Environment Variables
//
// All environment variables follow the pattern GRADEREPORT_<SECTION>_<FIELD>:
//
//	GRADEREPORT_PATHS_DATASET=data.csv
//	GRADEREPORT_PATHS_OUTPUT=output.html
//	GRADEREPORT_PATHS_HISTOGRAM=bar-chart.png
//	GRADEREPORT_LOGGING_LEVEL=debug
//	GRADEREPORT_METRICS_TEXTFILE=/var/lib/node_exporter/gradereport.prom
//
// # Path Management
//
// ResolvePaths turns the configured paths into absolute ones anchored at the
// working directory, and Paths.HistogramRef gives the relative image reference
// embedded in the course report.
package config
