// Package ratelimit implements per-user sliding-window admission control.
// Two implementations share the Limiter interface: an in-process map for
// single-instance deployments and a Redis sorted-set variant for running
// multiple bot processes against one budget.
package ratelimit
