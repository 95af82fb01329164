// Package instance reads instance descriptions in the line-oriented fact format.
//
// An instance file holds one fact per line:
//
//	agent(1,10).
//	task(1,[5,5],[10,1],[1,2]).
//	taskavail(1,[1,2,3]).
//	agentavail(1,[1,2]).
//	profit(2,[7,3,3]).
//	assignment(1,[1,2]).
//
// task lists weights, profits and compatible agents aligned by position.
// profit(c, ...) overrides the profit of every task in cycle c, aligned to the
// task declaration order, and must be given for every cycle but the first.
// assignment facts carry a solver's output and are informational.
//
// Blank lines and lines starting with % or # are ignored. Any other line that
// is not a recognized fact is an error.
//
// Load and Parse build a fresh Instance. Cache avoids re-parsing a file across
// runs and hands out independent clones.
package instance
