// Package websum turns crawled documentation pages into knowledge-base
// artifacts. It fetches pages, normalizes their Markdown, extracts
// metadata and same-site links, and writes the result in a detailed
// (Markdown + JSON) or a condensed (single annotated Markdown) layout.
//
// This package contains domain types, interfaces and the pure content
// transforms following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, rod/, sqlite/).
package websum
