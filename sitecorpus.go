// Package sitecorpus builds a text corpus from a single website.
// It discovers pages within one domain, extracts the main readable text
// of each page, rejects soft-404 pages, and splits the accepted text into
// overlapping chunks ready for embedding.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package sitecorpus
