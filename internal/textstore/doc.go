// Package textstore loads and saves raw text for a resolved path on one of the
// storage backends. Each backend storage class has its own handler: the none
// handler never finds anything, the resource handler reads through the
// named-resource registry and always releases its handle, and the filesystem
// handler reads/writes through an afero filesystem (temp file + rename in the
// target directory). A missing file is a normal outcome reported as
// ErrNotFound; I/O failures are logged and returned, never panicked.
package textstore
