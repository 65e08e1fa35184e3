package app

import (
	"log/slog"

	"github.com/cpyvn/cpyvn/pkg/config"
	"github.com/cpyvn/cpyvn/pkg/runtime"
)

// newVideoBackend resolves the project's video_backend setting. No
// decoder is linked into this build, so "auto" resolves to none; the
// runtime logs and skips video commands when the backend is nil.
func newVideoBackend(project *config.Project, log *slog.Logger) runtime.VideoBackend {
	switch project.VideoBackend {
	case "none":
		return nil
	case "auto", "":
		log.Info("no video decoder available, video commands disabled")
		return nil
	default:
		log.Warn("unknown video backend, video commands disabled", "backend", project.VideoBackend)
		return nil
	}
}
