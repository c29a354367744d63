// Package ngql renders nGQL statements.
//
// Statements are plain strings. Property values arrive already rendered as
// literals by their data types; this package only lays out keywords,
// identifiers and vertex ids. Identifiers are emitted bare when they are
// plain and not reserved, and backtick-quoted otherwise. Vertex ids are
// string literals.
//
// Inserts and upserts of vertices and edges share one representation,
// VertexStatement and EdgeStatement, and differ only in Op.
package ngql
