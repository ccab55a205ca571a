package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Greeting shown in an untouched session before the user asks anything.
const Greeting = "Hi! How can I help you today?"

// Application wires the session store, persistence, auth state, and the
// agent client together for the CLI and the TUI.
type Application struct {
	Config Config
	Logger *Logger
	States *StateStore
	Store  *Store
	Auth   AuthState
	Agent  *AgentClient
}

func NewApplication(cfg Config) *Application {
	logger := NewLogger(DefaultLogWriter())
	states := NewStateStore(cfg.DataRoot)
	auth := states.LoadAuth()

	var store *Store
	persist := func(st State) {
		// Fire and forget: a failed write must never surface into the
		// mutation that triggered it.
		if err := states.SaveChatState(st); err != nil {
			logger.Warn("persist chat state failed", map[string]interface{}{"error": err.Error()})
		}
	}
	store = RestoreStore(states.LoadChatState(), persist)

	timeout := time.Duration(cfg.AgentTimeoutSeconds) * time.Second
	return &Application{
		Config: cfg,
		Logger: logger,
		States: states,
		Store:  store,
		Auth:   auth,
		Agent:  NewAgentClient(cfg.BaseURL, auth.AccessToken, timeout),
	}
}

// DefaultLogWriter appends to a log file under the data root; it falls back
// to a silent logger when the file cannot be opened. Logging never goes to
// stdout, which the TUI owns.
func DefaultLogWriter() io.Writer {
	dir := DefaultStateRoot()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return io.Discard
	}
	f, err := os.OpenFile(filepath.Join(dir, "studyroom.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard
	}
	return f
}

// SetAuth updates the in-memory auth state, the agent client credential, and
// the persisted snapshot.
func (a *Application) SetAuth(auth AuthState) {
	a.Auth = auth
	a.Agent.Token = auth.AccessToken
	if err := a.States.SaveAuth(auth); err != nil {
		a.Logger.Warn("persist auth state failed", map[string]interface{}{"error": err.Error()})
	}
}

// Logout clears credentials and resets the chat history, so the next login
// starts from a clean store.
func (a *Application) Logout() {
	a.Auth = AuthState{}
	a.Agent.Token = ""
	_ = a.States.ClearAuth()
	a.Store.Reset()
}

// Send runs the full question flow against the session id captured at call
// time: auto-title a placeholder session, append the user message, ask the
// agent, and append the answer (or an error message) to the SAME session,
// even if the user has switched or deleted sessions meanwhile.
func (a *Application) Send(ctx context.Context, sessionID, text string) (string, error) {
	if sess, ok := a.sessionByID(sessionID); ok && sess.Title == PlaceholderTitle {
		a.Store.Rename(sessionID, TitleFromPrompt(text))
	}
	a.Store.AddUserMessage(sessionID, text)

	answer, err := a.Agent.Ask(ctx, text)
	if err != nil {
		a.Logger.Error("agent ask failed", map[string]interface{}{
			"session": sessionID,
			"error":   err.Error(),
		})
		a.Store.AddErrorMessage(sessionID, "Error: "+err.Error())
		return "", err
	}
	a.Store.AddAssistantMessage(sessionID, answer)
	return answer, nil
}

func (a *Application) sessionByID(id string) (ChatSession, bool) {
	for _, sess := range a.Store.Sessions() {
		if sess.ID == id {
			return sess, true
		}
	}
	return ChatSession{}, false
}
