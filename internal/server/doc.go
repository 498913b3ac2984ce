// Package server hosts the Fiber admin service and the document registry that
// turns config declarations into path chains, platform tables and documents.
// All document access from handlers goes through DocumentRegistry.Do so that
// each document is touched by one request at a time. Route handlers live in
// the routes subpackage and only depend on the exported registry surface.
package server
