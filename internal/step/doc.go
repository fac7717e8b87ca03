// Package step owns the world: the body/contact/constraint arenas and the
// six-stage per-frame pipeline that advances them. It is the one package
// that knows how the pieces built elsewhere (rigid, constraint, contact,
// pool) fit together into a running simulation.
package step
