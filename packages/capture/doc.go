// Package capture extracts values from normalized HTTP responses.
//
// It supports capturing values from:
//   - Response body (gjson paths)
//   - Response headers
//   - Response status code and reported response type
//
// Expressions are written as "status", "type", "header.<name>", "body" or
// "body.<path>".
package capture
