// Package bot is the Telegram transport: it polls for updates, dispatches
// commands and inline-keyboard callbacks into the selection flow, renders
// flow errors as user messages, and uploads finished files. Every handler
// recovers locally; nothing that happens in one chat can take the process
// down.
package bot
