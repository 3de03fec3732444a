// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the
// application, facilitating consistent and DRY testing across the codebase.
// Instead of defining inline mocks in individual test files, these standardized
// mock implementations can be reused.
//
// Each mock exposes one function field per interface method; when the field is
// nil a map-backed default implementation is used. WithTx returns the mock
// itself, so transactional code paths exercise the same recorded state.
package mocks
