// Package store defines the persistence interfaces for contacts,
// campaigns, tasks, and clicks, together with the sentinel errors
// implementations map database failures onto. Services depend on these
// interfaces only; the PostgreSQL implementations live in
// internal/platform/postgres.
package store
