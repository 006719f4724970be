package watcher

import (
	"context"
	"sync"

	"github.com/permachat/permachat/pkg/relay"
)

// stubAPI is an in-memory relay for watcher tests. listFn and uploadFn
// receive a 1-based call counter so tests can vary behavior per tick.
type stubAPI struct {
	mu sync.Mutex

	initErr   error
	initBlock chan struct{} // when set, InitializeBot waits on it
	initCalls int

	listFn    func(call int) (relay.Listing, error)
	listCalls int

	costErr   error
	costCalls map[string]int

	uploadFn    func(fileID string, call int) (relay.UploadResult, error)
	uploadCalls map[string]int
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		costCalls:   make(map[string]int),
		uploadCalls: make(map[string]int),
	}
}

func (s *stubAPI) InitializeBot(ctx context.Context) error {
	s.mu.Lock()
	s.initCalls++
	block := s.initBlock
	err := s.initErr
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return err
}

func (s *stubAPI) ListRecentFiles(ctx context.Context) (relay.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listFn == nil {
		return relay.Listing{}, nil
	}
	return s.listFn(s.listCalls)
}

func (s *stubAPI) GetUploadCost(ctx context.Context, fileID string) (relay.CostEstimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costCalls[fileID]++
	if s.costErr != nil {
		return relay.CostEstimate{}, s.costErr
	}
	return relay.CostEstimate{Winc: "1", AR: 0.001, Sufficient: true}, nil
}

func (s *stubAPI) UploadFile(ctx context.Context, fileID string) (relay.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls[fileID]++
	if s.uploadFn == nil {
		return relay.UploadResult{
			FileID:     fileID,
			ArweaveID:  fileID,
			ArweaveURL: "https://arweave.net/" + fileID,
		}, nil
	}
	return s.uploadFn(fileID, s.uploadCalls[fileID])
}

func (s *stubAPI) counts() (init, list int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initCalls, s.listCalls
}

func (s *stubAPI) costCount(fileID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.costCalls[fileID]
}

func (s *stubAPI) uploadCount(fileID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadCalls[fileID]
}
