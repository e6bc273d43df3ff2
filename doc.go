// Package learnkit is the object model shared by the algorithms in this module.
//
// Every algorithm exposes its inputs, results and partial results as slot
// containers: fixed-size lists of shared values addressed by a small integer
// identifier. A computation goes through the same four steps regardless of the
// algorithm:
//
//	Input.Check → Result.Allocate → kernel → Result.Check
//
// Checks never panic and never stop at the first problem. They return a *Status
// holding every structural error found. Containers (and parameters) serialize
// through an Archive, which uses one routine for both directions.
package learnkit
