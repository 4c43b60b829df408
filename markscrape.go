// Package markscrape extracts elements from parsed markup documents using
// composable filters and streams the matches as plain text, CSV, JSON, XML
// or YAML.
//
// This package contains domain types, interfaces and the dependency-free core
// (selection, schema inference and the emission state machine). Implementations
// live in subdirectories named after their primary dependency (e.g. goquery/,
// etree/, yaml/, sqlite/).
package markscrape
