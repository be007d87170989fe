// Package http describes HTTP requests as immutable values and executes them
// over an XHR-style asynchronous transport.
//
// It provides:
//   - Request building through pure transformations (NewRequest, WithHeader, ...)
//   - A single-shot executor (Send) that never fails for network or HTTP status outcomes
//   - Response normalization: status, lower-cased header mapping, text/blob/buffer content
//   - Convenience verbs (Get, Post, Put, Patch, Delete) on a separate, reduced code path
//   - Blob, File, FormData and FileReader primitives
//   - NetTransport, a Transport implementation backed by net/http
package http
