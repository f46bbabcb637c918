// Package model defines domain data structures used across the bot: video
// metadata, download results, content types, and the selection-flow state
// enum. Structures are dependency-free and shared by every other package.
package model
