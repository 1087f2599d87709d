// Package engine contains the frame loop of an Emerald game.
//
// The Engine owns every subsystem. Game code never holds a subsystem
// directly: each callback receives a Facade, and the Facade hands out scoped
// handles that stop working once the callback returns. The host platform is
// single-threaded, so exclusive access follows from that time-boxing rather
// than from locks.
package engine
