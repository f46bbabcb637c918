// Package flow implements the selection state machine driving one download:
// URL submission, content-type choice, quality choice, then the rate-limited
// download itself. Every interaction is validated against the user's session
// and the correlation token embedded in the callback data; the transport
// layer renders the typed errors this package returns.
package flow
