package channels

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/permachat/permachat/pkg/config"
	"github.com/permachat/permachat/pkg/logger"
)

// UploadStarter is the watcher broker as the chat sees it: one blocking
// call that resolves to the first completed upload's public URL.
type UploadStarter interface {
	WaitForFirstUpload(ctx context.Context) (string, error)
}

// Notifier announces a completed upload outside the chat UI.
type Notifier interface {
	AnnounceUpload(url string) error
}

// WebChat serves the embedded chat page and its JSON endpoints. The /upload
// command drives the upload starter; status transitions are appended to the
// chat transcript and picked up by the page's poll loop.
type WebChat struct {
	cfg      config.WebChatConfig
	starter  UploadStarter
	notifier Notifier
	maxWait  time.Duration

	server *http.Server

	mu        sync.RWMutex
	messages  map[string][]chatMessage // chatID -> transcript
	uploading map[string]bool          // chatID -> an upload is in flight
	sessions  map[string]time.Time     // auth token -> expiry
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

type chatRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

func NewWebChat(cfg config.WebChatConfig, starter UploadStarter, notifier Notifier, maxWait time.Duration) *WebChat {
	return &WebChat{
		cfg:       cfg,
		starter:   starter,
		notifier:  notifier,
		maxWait:   maxWait,
		messages:  make(map[string][]chatMessage),
		uploading: make(map[string]bool),
		sessions:  make(map[string]time.Time),
	}
}

// authEnabled returns true when both username and password are configured.
func (c *WebChat) authEnabled() bool {
	return c.cfg.Username != "" && c.cfg.Password != ""
}

// createSession generates a random session token and stores it.
func (c *WebChat) createSession() string {
	b := make([]byte, 32)
	rand.Read(b)
	token := hex.EncodeToString(b)
	c.mu.Lock()
	c.sessions[token] = time.Now().Add(24 * time.Hour)
	c.mu.Unlock()
	return token
}

// validSession checks if the request carries a valid session cookie.
func (c *WebChat) validSession(r *http.Request) bool {
	cookie, err := r.Cookie("permachat_session")
	if err != nil {
		return false
	}
	c.mu.RLock()
	expiry, ok := c.sessions[cookie.Value]
	c.mu.RUnlock()
	return ok && time.Now().Before(expiry)
}

// requireAuth wraps a handler with authentication. If auth is not configured, it passes through.
func (c *WebChat) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !c.authEnabled() || c.validSession(r) {
			next(w, r)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// requireAuthAPI is like requireAuth but returns 401 JSON for API endpoints.
func (c *WebChat) requireAuthAPI(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !c.authEnabled() || c.validSession(r) {
			next(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}
}

func (c *WebChat) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	c.server = &http.Server{Addr: addr, Handler: c.Handler()}

	if c.authEnabled() {
		logger.InfoCF("channels", "WebChat started (auth enabled)", map[string]interface{}{"addr": addr})
	} else {
		logger.InfoCF("channels", "WebChat started (no auth)", map[string]interface{}{"addr": addr})
	}

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorCF("channels", "WebChat server error", map[string]interface{}{"error": err.Error()})
		}
	}()

	return nil
}

func (c *WebChat) Stop(ctx context.Context) error {
	if c.server != nil {
		return c.server.Shutdown(ctx)
	}
	return nil
}

// Handler returns the channel's routes, separated out so tests can drive
// them without binding a port.
func (c *WebChat) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.requireAuth(c.handleUI))
	mux.HandleFunc("/chat/send", c.requireAuthAPI(c.handleSend))
	mux.HandleFunc("/chat/poll", c.requireAuthAPI(c.handlePoll))
	mux.HandleFunc("/login", c.handleLogin)
	mux.HandleFunc("/logout", c.handleLogout)
	return mux
}

func (c *WebChat) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !c.authEnabled() || c.validSession(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, loginPage(""))
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	isJSON := r.Header.Get("Content-Type") == "application/json"
	if isJSON {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "bad request"})
			return
		}
	} else {
		r.ParseForm()
		body.Username = r.FormValue("username")
		body.Password = r.FormValue("password")
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(body.Username), []byte(c.cfg.Username)) == 1
	passwordMatch := subtle.ConstantTimeCompare([]byte(body.Password), []byte(c.cfg.Password)) == 1

	if !usernameMatch || !passwordMatch {
		logger.WarnCF("channels", "WebChat login failed", map[string]interface{}{
			"remote": r.RemoteAddr,
		})
		if isJSON {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, loginPage("Invalid username or password"))
		return
	}

	token := c.createSession()
	http.SetCookie(w, &http.Cookie{
		Name:     "permachat_session",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400,
	})

	if isJSON {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *WebChat) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("permachat_session"); err == nil {
		c.mu.Lock()
		delete(c.sessions, cookie.Value)
		c.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "permachat_session",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (c *WebChat) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if req.ChatID == "" {
		req.ChatID = "default"
	}

	c.appendMessage(req.ChatID, "user", req.Message)
	reply := c.dispatch(req.ChatID, req.Message)
	c.appendMessage(req.ChatID, "assistant", reply)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{ChatID: req.ChatID, Message: reply})
}

// dispatch interprets a chat command and returns the immediate reply.
// Long-running work continues in the background and lands in the transcript.
func (c *WebChat) dispatch(chatID, message string) string {
	switch strings.TrimSpace(message) {
	case "/upload":
		return c.startUpload(chatID)
	case "/help":
		return helpText
	default:
		return "I only understand commands right now. " + helpText
	}
}

// startUpload kicks off one upload watch for this chat. Only one may be in
// flight per chat; the terminal success/error message arrives asynchronously.
func (c *WebChat) startUpload(chatID string) string {
	c.mu.Lock()
	if c.uploading[chatID] {
		c.mu.Unlock()
		return "An upload is already in progress for this chat. Send your file to the bot and wait for it to finish."
	}
	c.uploading[chatID] = true
	c.mu.Unlock()

	go c.runUpload(chatID)

	return "Uploading… send your file to the Telegram bot and I'll post the permanent link here once it's stored."
}

func (c *WebChat) runUpload(chatID string) {
	defer func() {
		c.mu.Lock()
		delete(c.uploading, chatID)
		c.mu.Unlock()
	}()

	ctx := context.Background()
	if c.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.maxWait)
		defer cancel()
	}

	url, err := c.starter.WaitForFirstUpload(ctx)
	if err != nil {
		logger.ErrorCF("channels", "upload failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
		c.appendMessage(chatID, "assistant", "Upload failed: "+err.Error())
		return
	}

	c.appendMessage(chatID, "assistant", "Your file is on permanent storage: "+url)

	if c.notifier != nil {
		if err := c.notifier.AnnounceUpload(url); err != nil {
			logger.WarnCF("channels", "completion announcement failed", map[string]interface{}{
				"chat_id": chatID,
				"error":   err.Error(),
			})
		}
	}
}

func (c *WebChat) appendMessage(chatID, role, content string) {
	c.mu.Lock()
	c.messages[chatID] = append(c.messages[chatID], chatMessage{
		Role:    role,
		Content: content,
		Time:    time.Now().Format("15:04:05"),
	})
	c.mu.Unlock()
}

func (c *WebChat) handlePoll(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat_id")
	if chatID == "" {
		chatID = "default"
	}

	c.mu.RLock()
	msgs := c.messages[chatID]
	c.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msgs)
}

func (c *WebChat) handleUI(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, chatHTML)
}

const helpText = "Commands: /upload — push your next Telegram file to permanent storage, /help — this message."
