// Package nav is the brain's reactive navigation loop: sweep the
// distance sensor across the front arc, pick the clearest bearing,
// classify it against the obstacle distance and dispatch the matching
// motion command to the muscle.
package nav
