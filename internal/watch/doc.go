// Package watch implements continuous compilation: modification-time
// snapshots of a document's files and the supervisor loop that recompiles
// whenever a snapshot changes.
//
// The loop polls; it does not use filesystem notifications. A compile in
// progress always runs to completion; cancellation is observed while
// waiting between polls.
package watch
