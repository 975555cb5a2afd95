// Package errors provides the classified error primitives used across the migration.
//
// Errors carry a category (asset, markup, conversion, source, sink, config ...), a
// severity and a free-form context map. A fluent builder keeps construction uniform:
//
//	err := errors.AssetError("asset not found").
//		WithContext("filename", name).
//		WithCause(statErr).
//		Build()
//
// Sentinel values built with the same category and message compare equal under
// errors.Is, so packages export sentinels and attach context to the returned copies.
package errors
