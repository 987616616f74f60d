// Package api defines the JSON wire types of the mediadock HTTP surfaces and
// the converters from store models to those types.
//
// Field names are snake_case to match existing clients of the image API.
// Timestamps use RFC3339 with microseconds in UTC.
package api
