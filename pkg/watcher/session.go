package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/permachat/permachat/pkg/logger"
	"github.com/permachat/permachat/pkg/relay"
)

// API is the slice of the relay client the watcher needs.
type API interface {
	InitializeBot(ctx context.Context) error
	ListRecentFiles(ctx context.Context) (relay.Listing, error)
	GetUploadCost(ctx context.Context, fileID string) (relay.CostEstimate, error)
	UploadFile(ctx context.Context, fileID string) (relay.UploadResult, error)
}

// NotifyFunc receives the public URL of every file that completes its upload
// while the session is active.
type NotifyFunc func(url string)

// Session owns one polling loop against the relay: the recurring tick, the
// last-seen watermark and the completion callback all live here rather than
// in package state, so independent sessions can run side by side.
type Session struct {
	id       string
	api      API
	interval time.Duration

	mu        sync.Mutex
	active    bool
	cancel    context.CancelFunc
	done      chan struct{}
	notify    NotifyFunc
	watermark time.Time
}

func NewSession(api API, interval time.Duration) *Session {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Session{
		id:       uuid.NewString(),
		api:      api,
		interval: interval,
	}
}

// OnUpload registers the completion callback. Set it before Start; there is
// a single callback per session.
func (s *Session) OnUpload(fn NotifyFunc) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Start initializes the relay bot and begins polling. Calling Start while
// the session is already active is a no-op: only one ticker ever runs. If
// bot initialization fails the session stays idle and the error propagates.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = true
	s.mu.Unlock()

	if err := s.api.InitializeBot(ctx); err != nil {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		logger.ErrorCF("watcher", "bot initialization failed", map[string]interface{}{
			"session": s.id,
			"error":   err.Error(),
		})
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if !s.active {
		// Stopped while the bot was still initializing; don't start polling.
		s.mu.Unlock()
		cancel()
		return nil
	}
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	logger.InfoCF("watcher", "polling started", map[string]interface{}{
		"session":  s.id,
		"interval": s.interval.String(),
	})

	go s.run(runCtx, done)
	return nil
}

// Stop cancels the polling loop. Idempotent; safe to call from the
// completion callback.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	cancel := s.cancel
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	logger.InfoCF("watcher", "polling stopped", map[string]interface{}{
		"session": s.id,
	})
}

// Active reports whether the polling loop is running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick lists recent files, advances the watermark to the listing's snapshot
// time whether or not anything matched, and processes each discovered file
// in listing order. Errors are logged and swallowed; polling survives them.
func (s *Session) tick(ctx context.Context) {
	listing, err := s.api.ListRecentFiles(ctx)
	if err != nil {
		logger.WarnCF("watcher", "listing recent files failed", map[string]interface{}{
			"session": s.id,
			"error":   err.Error(),
		})
		return
	}

	s.mu.Lock()
	mark := s.watermark
	s.watermark = listing.Timestamp
	notify := s.notify
	s.mu.Unlock()

	fresh := filterNew(listing.Files, mark)
	if len(fresh) == 0 {
		return
	}

	logger.DebugCF("watcher", "discovered new files", map[string]interface{}{
		"session": s.id,
		"count":   len(fresh),
	})

	for _, f := range fresh {
		if ctx.Err() != nil {
			return
		}
		url, err := s.processFile(ctx, f)
		if err != nil {
			// The file stays pending server-side and will be rediscovered
			// on a later tick, so failure here is not terminal.
			logger.WarnCF("watcher", "file processing failed", map[string]interface{}{
				"session": s.id,
				"file_id": f.ID,
				"error":   err.Error(),
			})
			continue
		}
		if notify != nil {
			notify(url)
		}
	}
}

// processFile runs the cost-check-then-upload sequence for one file and
// returns the resulting public URL. The estimate itself is not consulted;
// the upload call is the actual balance gatekeeper.
func (s *Session) processFile(ctx context.Context, f relay.RemoteFile) (string, error) {
	if _, err := s.api.GetUploadCost(ctx, f.ID); err != nil {
		return "", err
	}

	res, err := s.api.UploadFile(ctx, f.ID)
	if err != nil {
		return "", err
	}

	if res.ArweaveURL == "" {
		return "", &relay.IncompleteResponseError{Op: "upload file", Missing: "arweave_url"}
	}

	logger.InfoCF("watcher", "file reached permanent storage", map[string]interface{}{
		"session":    s.id,
		"file_id":    f.ID,
		"arweave_id": res.ArweaveID,
	})

	return res.ArweaveURL, nil
}
