// Package core holds the values and boundary capabilities the compile
// orchestrator is built from.
//
// # Core Types
//
// Engine: a concrete compiler executable plus its family.
// FileSet: the sorted list of a document's tracked files and the flags
// derived from it.
// ExternalRunner: runs one external program with one argument in an
// explicit working directory.
//
// Nothing in this package changes the process working directory; every
// invocation receives its directory as a parameter.
package core
