// Package pass runs one compile pass: the ordered, fail-fast sequence of
// external tool invocations that turns a document's sources into its
// output artifact.
//
// It is split into:
//   - Planning (Policy): which steps run, in which order, as plain data
//   - Execution (Execute): interprets a plan against an ExternalRunner,
//     tracking per-step state and stopping at the first failure
package pass
