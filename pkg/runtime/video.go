package runtime

import "github.com/cpyvn/cpyvn/pkg/script"

// startVideo opens a playback session through the backend. A missing
// backend or a failed open logs and skips; playback problems never stop
// the script.
func (r *Runtime) startVideo(c script.Video) {
	if r.video == nil {
		r.log.Warn("video play skipped, no backend configured", "path", c.Path)
		return
	}
	r.stopVideo()
	pb, err := r.video.CreatePlayback(c.Path, c.Loop)
	if err != nil {
		r.log.Warn("video open failed", "path", c.Path, "error", err)
		return
	}
	r.videoState = &VideoState{Path: c.Path, Loop: c.Loop, Fit: c.Fit, playback: pb}
}

// stopVideo closes the playback synchronously and clears the state. A
// video wait in progress clears on the next clock advance.
func (r *Runtime) stopVideo() {
	if r.videoState == nil {
		return
	}
	if r.videoState.playback != nil {
		r.videoState.playback.Close()
	}
	r.videoState = nil
}

// ActiveVideo returns the playback state, or nil.
func (r *Runtime) ActiveVideo() *VideoState { return r.videoState }
