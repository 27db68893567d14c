// Package analysis turns loosely shaped analysis payloads from the remote
// analysis service into a stable canonical model, and derives scores, score
// explanations, insights and skill-gap guidance from it.
//
// Everything in this package is pure: no I/O, no shared state, and the same
// input always produces the same output (the createdAt default aside, which
// comes from Adapter.Now).
package analysis
