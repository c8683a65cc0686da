// Package engine executes parsed specification features against a live
// implementation and judges the results.
//
// Each specification runs against one Scope: the implementation under
// test layered under the bindings features create as they run. Execution
// is strictly sequential and single-threaded; features run in document
// order because later features may reference bindings produced by
// earlier ones. Failures inside the implementation under test never
// propagate: they collapse into an error-sentinel outcome so "this call
// is expected to fail" is itself a testable result.
package engine
