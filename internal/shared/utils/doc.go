// Package utils provides input validation for request payloads.
//
// Validation:
//   - String length and null-byte checks
//   - Safe id format for window and node ids
//   - Terminal command lines, chat messages and file content sizes
package utils
