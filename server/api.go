// Package server exposes the chat and account-connection HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/arctechlabs/iris/agents"
	"github.com/arctechlabs/iris/framework"
	"github.com/arctechlabs/iris/persistence"
)

// DefaultUserID identifies the single-user deployment. Multi-tenant
// installs pass an explicit user query parameter instead.
const DefaultUserID = "default"

// chatTimeout bounds one workflow invocation end to end.
const chatTimeout = 5 * time.Minute

// API wires the chat workflow, the stores and the OAuth flows into an
// HTTP handler.
type API struct {
	Config    *agents.Config
	Model     framework.LanguageModel
	Store     *persistence.SQLiteStore
	Telemetry framework.Telemetry
	Logger    *log.Logger
}

// ChatRequest is the POST /api/ai/chat payload.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// ChatResponse carries the assistant's reply and the messages the turn
// produced.
type ChatResponse struct {
	SessionID string              `json:"sessionId"`
	Reply     string              `json:"reply"`
	Messages  []framework.Message `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds the route table.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/ai/chat", a.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/api/salesforce/authorize", a.handleAuthorize(persistence.ProviderSalesforce)).Methods(http.MethodGet)
	r.HandleFunc("/api/salesforce/callback", a.handleCallback(persistence.ProviderSalesforce)).Methods(http.MethodGet)
	r.HandleFunc("/api/salesforce/status", a.handleStatus(persistence.ProviderSalesforce)).Methods(http.MethodGet)
	r.HandleFunc("/api/google/authorize", a.handleAuthorize(persistence.ProviderGoogle)).Methods(http.MethodGet)
	r.HandleFunc("/api/google/callback", a.handleCallback(persistence.ProviderGoogle)).Methods(http.MethodGet)
	r.HandleFunc("/api/google/status", a.handleStatus(persistence.ProviderGoogle)).Methods(http.MethodGet)
	r.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down
// gracefully.
func (a *API) Serve(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: a.Handler()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	if a.Logger != nil {
		a.Logger.Printf("listening on %s", addr)
	}
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = DefaultUserID
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	workflow, err := a.buildWorkflow(ctx, userID)
	if err != nil {
		a.logf("workflow build failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to initialize assistant"})
		return
	}

	history, err := a.Store.History(ctx, req.SessionID)
	if err != nil {
		a.logf("history load failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load conversation"})
		return
	}
	userTurn := framework.Message{Role: framework.RoleUser, Content: req.Message}
	conv := append(history.Clone(), userTurn)

	result, err := workflow.InvokeSession(ctx, req.SessionID, conv)
	if err != nil {
		if errors.Is(err, framework.ErrCycleLimitExceeded) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "assistant exceeded its step limit for this request"})
			return
		}
		a.logf("workflow failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "assistant failed"})
		return
	}

	delta := result[len(history):]
	if err := a.Store.Append(ctx, req.SessionID, delta...); err != nil {
		a.logf("history append failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save conversation"})
		return
	}

	reply := ""
	if last, ok := result.Last(); ok {
		reply = last.Content
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		SessionID: req.SessionID,
		Reply:     reply,
		Messages:  delta,
	})
}

func (a *API) handleStatus(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = DefaultUserID
		}
		connected, err := a.Store.HasToken(r.Context(), userID, provider)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "credential lookup failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"provider":  provider,
			"connected": connected,
		})
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) logf(format string, args ...interface{}) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("write response: %v", err)
	}
}
