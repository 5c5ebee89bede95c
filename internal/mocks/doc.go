// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the application,
// facilitating consistent and DRY testing across the codebase. Instead of defining
// inline mocks in individual test files, these standardized mock implementations
// can be reused.
//
// Each mock follows the same pattern: function fields (e.g. CreateFn) override
// individual methods, and an in-memory default implementation backs the rest.
// The in-memory defaults are safe for concurrent use, which the scheduler and
// tracking tests rely on.
package mocks
