// Package postgres implements the store interfaces against PostgreSQL with
// hand-written SQL, translating driver errors into the store package's
// sentinel errors.
package postgres
