// Package services defines the shared error vocabulary for the assembly
// engine. Sentinel errors classify failures by how callers should react:
// duration and I/O problems are fatal, encoding problems are soft and come
// with a placeholder output, and alignment degradation is never an error.
package services
