// Package app holds the client's view state and the rules that keep it in
// sync with the list service. Nothing here performs I/O: API calls are made
// by the caller, and their outcomes are applied through the functions and
// methods in this package, so every synchronization rule can be tested
// without a terminal or a server.
//
// The root state is reduced from events:
//
//	State + Event -> State + []Effect
//
// Effects name the reloads the caller must perform (lists or history).
package app
