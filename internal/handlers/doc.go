// Package handlers implements the REST surface of the catalog server.
//
// Handlers are thin: they decode the request, call into the catalog,
// similarity index, renderer or ingester, and translate the error
// taxonomy into HTTP status codes. All business rules live below this
// package.
package handlers
