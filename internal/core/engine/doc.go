// Package engine decides which calendar dates a habit applies to and folds
// a habit's sparse log into streaks and a completion rate.
//
// Every function here is pure: no I/O, no clock, no shared state. "Today" is
// always an argument, so callers own the question of which calendar day it
// is for the user.
package engine
