// Package game holds the clicker's authoritative state and the rules that mutate it
//
// State is the single aggregate; Bank, Shop and Resolver are stateless rule
// holders that take the State explicitly. Nothing here reads the clock: every
// time-dependent operation receives the tick's sampled time.
package game
