// Package cmd implements the xhrkit CLI commands using Cobra.
//
// Available commands:
//   - send: Build a request from flags and print the normalized response
//   - get, post, put, patch, delete: One-shot convenience requests
//   - echo: Run the echo server
//   - init: Write a default .xhrkit.yaml
//   - version: Show xhrkit version information
package cmd
