// Package errors defines error types for the codex proto SDK.
//
// This package provides structured error types that wrap the different failure
// scenarios when talking to a codex proto subprocess. All error types support
// error unwrapping and can be checked using errors.Is, errors.As, and errors.AsType.
package errors
