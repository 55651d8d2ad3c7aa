// Package sitemapper resolves where a website keeps its sitemap and turns
// that sitemap into a flat list of page URLs.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, slog/, bloom/, rate/).
package sitemapper
