// Package platform contains filesystem glue shared by the download and
// upload pipeline: size probing, scoped temp-file cleanup, filename
// sanitization, and post-processed audio output resolution.
package platform
