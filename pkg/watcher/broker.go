package watcher

import (
	"context"
	"sync"
	"time"
)

// Broker turns the recurring polling loop into a one-shot operation:
// start a session, wait for the first file to reach permanent storage,
// return its URL and tear the session down.
type Broker struct {
	api      API
	interval time.Duration
}

func NewBroker(api API, interval time.Duration) *Broker {
	return &Broker{api: api, interval: interval}
}

// WaitForFirstUpload blocks until any file completes its upload and returns
// that file's public URL. Exactly the first completion wins; later files
// finishing in the same session are ignored because the session is stopped
// on first match. If bot initialization fails the error is returned
// immediately and no polling ever starts. Cancellation and deadlines come
// from ctx; with a plain background context the wait is unbounded.
func (b *Broker) WaitForFirstUpload(ctx context.Context) (string, error) {
	session := NewSession(b.api, b.interval)

	result := make(chan string, 1)
	var once sync.Once
	session.OnUpload(func(url string) {
		once.Do(func() {
			result <- url
			session.Stop()
		})
	})

	if err := session.Start(ctx); err != nil {
		return "", err
	}
	defer session.Stop()

	select {
	case url := <-result:
		return url, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
