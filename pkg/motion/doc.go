// Package motion executes stepper motion: coil phase sequencing for
// gear-reduced scan steppers, STEP/DIR pulsing for the TMC-driven
// drive motors, and lock-step differential sequencing across motor
// sets.
//
// Stepping is blocking and time-paced on purpose: the inter-step delay
// is the actuation clock, and a step burst must not be preempted
// mid-sequence because a partial phase write can momentarily short two
// coil phases.
package motion
