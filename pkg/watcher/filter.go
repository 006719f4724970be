package watcher

import (
	"time"

	"github.com/permachat/permachat/pkg/relay"
)

// filterNew picks the files from a listing that are newly eligible for
// processing: still pending, no permanent-storage URL yet, and created
// strictly after the watermark when one is set. A zero watermark means
// first run, so every pending file qualifies.
func filterNew(files []relay.RemoteFile, watermark time.Time) []relay.RemoteFile {
	var fresh []relay.RemoteFile
	for _, f := range files {
		if f.UploadStatus != relay.UploadStatusPending {
			continue
		}
		if f.ArweaveURL != "" {
			continue
		}
		if !watermark.IsZero() && !f.CreatedAt.After(watermark) {
			continue
		}
		fresh = append(fresh, f)
	}
	return fresh
}
