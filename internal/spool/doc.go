// Package spool defines the spool record and the in-memory collection the
// lookup tool searches.
//
// # Records
//
// A Record mirrors one element of the published JSON array. Keys follow the
// spreadsheet export (ID_Item, Spool, Status, Ubicacion, Foto_URL, Plano_URL
// and the optional Foto_Origen_URL). Values are kept exactly as published;
// media URLs are rewritten only when a detail card is derived (see package
// card).
//
// Identifiers arrive as strings or numbers depending on the sheet cell type.
// ID stores the textual form of either, so lookups compare strings.
//
// # Collection
//
// A Collection is built once per load and never mutated. It supports:
//
//   - Lookup: first record whose identifier equals the query
//   - Filter: case-folded substring match over the id or name, order
//     preserving, capped at a suggestion limit
//   - IDs / Names: exhaustive option lists for selector mode
//
// Duplicated identifiers are not detected; the first one wins.
package spool
