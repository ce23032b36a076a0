// Package mediatypes provides shared type definitions for generated media
// handled across the studio server.
//
// It exists as a dependency-free foundation importable by every other package
// without creating import cycles: media kinds, gallery sort modes, supported
// file extensions, and MIME lookups, all pure standard-library code.
package mediatypes
