// Package dataprocessing turns SIUS score exports into per-competitor
// summaries.
//
// The pipeline runs in a fixed order:
//
//	raw bytes -> DecodeText -> SniffDelimiter -> ParseTable -> SuggestColumns -> Summarizer
//
// Analyzer.Analyze wires the steps together and is the single entry point
// used by the HTTP API and the command-line summariser. Every step is a pure
// function of its input apart from logging, so identical bytes and column
// choices always produce identical summaries.
//
// Score cells are parsed leniently: surrounding whitespace is ignored and a
// single comma is read as the decimal separator. Cells that still fail to
// parse are skipped and counted per competitor, never fatal.
package dataprocessing
