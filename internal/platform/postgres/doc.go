// Package postgres implements the internal/store interfaces on
// PostgreSQL via the pgx stdlib driver. It owns the SQL, the mapping
// between rows and domain entities, and the translation of driver
// errors onto store sentinels. The conditional updates behind task
// claiming and click tracking live here; see TaskStore.Claim and
// ClickStore.MarkClicked.
package postgres
