// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of shzip:
//   - input resolution and payload encoding
//   - archive generation with and without compression
//   - archive listing and in-process extraction
//   - CUE manifest parsing
//
// To generate a PGO profile, run:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
