// Package store is the persistence collaborator for the asset catalog.
//
// It provides CRUD over whole asset records plus the two indexed
// lookups the catalog core depends on: conjunctive tag queries and
// content-hash bucket queries. Each mutation updates one record as a
// whole inside a transaction, so concurrent readers never observe a
// partially-written asset.
//
// The backing engine is SQLite in WAL mode with a busy timeout;
// everything above this package treats it as an opaque key/value plus
// indexed-lookup service.
package store
