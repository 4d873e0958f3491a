// Package types defines the Database and Registry interfaces, the input
// variants accepted by the store, schema and result types, configuration,
// and the sentinel errors shared by every jeeves backend.
package types
