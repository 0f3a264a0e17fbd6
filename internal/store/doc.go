// Package store declares the persistence interfaces the services depend on,
// plus the transaction helper that lets a service compose several store
// calls atomically without knowing the database in use.
package store
