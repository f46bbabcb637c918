package model

// FlowState represents where a user is in the URL -> content type -> quality
// -> download selection flow.
type FlowState string

const (
	// FlowIdle means no selection flow is active for the user
	FlowIdle FlowState = "Idle"

	// FlowAwaitingContentType means a URL was accepted and the user must pick video or audio
	FlowAwaitingContentType FlowState = "AwaitingContentType"

	// FlowAwaitingQuality means a content type was picked and the user must pick a quality
	FlowAwaitingQuality FlowState = "AwaitingQuality"

	// FlowDownloading means a terminal quality selection triggered a download
	FlowDownloading FlowState = "Downloading"

	// FlowCompleted means the file was delivered and the session cleared
	FlowCompleted FlowState = "Completed"

	// FlowCancelled means the user aborted the flow
	FlowCancelled FlowState = "Cancelled"

	// FlowExpired means session data vanished before the flow finished
	FlowExpired FlowState = "Expired"

	// FlowFailed means the download or upload failed
	FlowFailed FlowState = "Failed"
)

// String returns the string representation of FlowState.
func (fs FlowState) String() string {
	return string(fs)
}

// IsTerminal reports whether the flow has reached a final state.
func (fs FlowState) IsTerminal() bool {
	return fs == FlowCompleted || fs == FlowCancelled || fs == FlowExpired || fs == FlowFailed
}

// IsActive reports whether a selection flow is in progress.
func (fs FlowState) IsActive() bool {
	return fs == FlowAwaitingContentType || fs == FlowAwaitingQuality || fs == FlowDownloading
}
