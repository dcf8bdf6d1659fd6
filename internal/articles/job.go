package articles

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// OptimizeImageArgs is the payload of the background job that downscales an
// uploaded article image. The media-relative path is the unique key so River
// never queues the same file twice concurrently.
type OptimizeImageArgs struct {
	// Path is the media-relative filename of the image to process.
	Path string `json:"path" river:"unique"`
	// MaxWidth is the width in pixels above which the image is downscaled.
	MaxWidth int `json:"maxWidth"`
}

// Kind returns the River job kind used to register and dispatch the image worker.
func (OptimizeImageArgs) Kind() string { return "OptimizeArticleImage" }

// InsertOpts enforces one live job per image path.
func (args OptimizeImageArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 3,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
