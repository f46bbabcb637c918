// Package session holds the per-user ephemeral state of one selection flow
// and the correlation tokens that tie inline-keyboard taps back to it.
// Sessions do not survive a restart; a lost session reads as expired.
package session
