package channels

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permachat/permachat/pkg/config"
)

type sentMessage struct {
	chatID    string
	text      string
	parseMode string
}

// fakeBotServer speaks just enough of the bot API for the notifier:
// getMe for the constructor handshake and sendMessage for announcements.
type fakeBotServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	sent     []sentMessage
	failNext int // reject this many sendMessage calls with a parse error
}

func newFakeBotServer(t *testing.T, token string) *fakeBotServer {
	t.Helper()
	f := &fakeBotServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/bot"+token+"/getMe", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Perma","username":"permabot"}}`))
	})
	mux.HandleFunc("/bot"+token+"/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.mu.Lock()
		f.sent = append(f.sent, sentMessage{
			chatID:    r.Form.Get("chat_id"),
			text:      r.Form.Get("text"),
			parseMode: r.Form.Get("parse_mode"),
		})
		fail := f.failNext > 0
		if fail {
			f.failNext--
		}
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: can't parse entities"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeBotServer) endpoint() string {
	return f.srv.URL + "/bot%s/%s"
}

func (f *fakeBotServer) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeBotServer) setFailNext(n int) {
	f.mu.Lock()
	f.failNext = n
	f.mu.Unlock()
}

func telegramTestConfig() config.TelegramConfig {
	return config.TelegramConfig{Enabled: true, Token: "test-token", ChatID: 4242}
}

func TestTelegramNotifierRequiresTokenAndChatID(t *testing.T) {
	_, err := NewTelegramNotifier(config.TelegramConfig{ChatID: 1})
	assert.Error(t, err)

	_, err = NewTelegramNotifier(config.TelegramConfig{Token: "x"})
	assert.Error(t, err)
}

func TestAnnounceUploadSendsHTMLLink(t *testing.T) {
	fake := newFakeBotServer(t, "test-token")
	n, err := newTelegramNotifier(telegramTestConfig(), fake.endpoint())
	require.NoError(t, err)

	require.NoError(t, n.AnnounceUpload("https://arweave.net/abc"))

	msgs := fake.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "4242", msgs[0].chatID)
	assert.Equal(t, "HTML", msgs[0].parseMode)
	assert.Contains(t, msgs[0].text, `<a href="https://arweave.net/abc">`)
}

func TestAnnounceUploadRetriesPlainTextOnParseError(t *testing.T) {
	fake := newFakeBotServer(t, "test-token")
	n, err := newTelegramNotifier(telegramTestConfig(), fake.endpoint())
	require.NoError(t, err)

	fake.setFailNext(1)
	require.NoError(t, n.AnnounceUpload("https://arweave.net/abc"))

	msgs := fake.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "HTML", msgs[0].parseMode)
	assert.Empty(t, msgs[1].parseMode)
	assert.Equal(t, "Your file is on permanent storage: https://arweave.net/abc", msgs[1].text)
}

func TestAnnounceUploadReportsErrorWhenRetryFails(t *testing.T) {
	fake := newFakeBotServer(t, "test-token")
	n, err := newTelegramNotifier(telegramTestConfig(), fake.endpoint())
	require.NoError(t, err)

	fake.setFailNext(2)
	assert.Error(t, n.AnnounceUpload("https://arweave.net/abc"))
	assert.Len(t, fake.messages(), 2)
}
