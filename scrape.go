// Package scrape crawls a single website, extracts semi-structured records
// from its pages, and exports them to tabular and structured formats.
//
// This package contains domain types, interfaces, and pure URL logic
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// rod/, resty/, sqlite/, excelize/).
package scrape
