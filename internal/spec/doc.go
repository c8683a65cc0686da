// Package spec holds the data model and grammar for conformance
// specification documents.
//
// A specification document is a YAML sequence of entries. Each entry is
// either a scalar string or a single-key mapping, and parses into exactly
// one Feature: a declarative assertion or binding action to run against a
// live implementation. The first entry of every document must bind the
// PACKAGE constant to the identifier of the implementation under test;
// documents without that header are not specifications and are excluded
// from a run.
//
// Values authored in a document are represented by the tagged Value tree
// (Scalar, List, Map, Ref). Reference markers - a mapping with exactly one
// entry whose value is null - are classified once, at parse time, so the
// rest of the system never re-derives the shape rule.
package spec
