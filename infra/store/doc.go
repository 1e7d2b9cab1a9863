// Package store provides fleet.Store backends: a CSV file in the reference
// fleet_status layout, SQLite, PostgreSQL and an in-memory store for tests.
package store
