package framework

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// EventType categorizes telemetry events.
type EventType string

const (
	EventWorkflowStart  EventType = "workflow_start"
	EventWorkflowFinish EventType = "workflow_finish"
	EventNodeStart      EventType = "node_start"
	EventNodeFinish     EventType = "node_finish"
	EventNodeError      EventType = "node_error"
	EventToolCall       EventType = "tool_call"
	EventToolResult     EventType = "tool_result"
	EventModelPrompt    EventType = "model_prompt"
	EventModelResponse  EventType = "model_response"
)

// Event captures structured telemetry data.
type Event struct {
	Type      EventType              `json:"type"`
	NodeID    string                 `json:"node_id,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Telemetry captures execution traces emitted by the workflow runtime.
// Production deployments can implement exporters here, while tests typically
// swap in lightweight recorders.
type Telemetry interface {
	Emit(event Event)
}

// MultiplexTelemetry broadcasts events to multiple sinks.
type MultiplexTelemetry struct {
	Sinks []Telemetry
}

// Emit forwards the event to all registered sinks.
func (m MultiplexTelemetry) Emit(event Event) {
	for _, s := range m.Sinks {
		s.Emit(event)
	}
}

// LogTelemetry writes events through a standard logger.
type LogTelemetry struct {
	Logger *log.Logger
}

// Emit logs the event in a compact single-line form.
func (l LogTelemetry) Emit(event Event) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	if event.Message != "" {
		logger.Printf("%s node=%s session=%s: %s", event.Type, event.NodeID, event.SessionID, event.Message)
		return
	}
	logger.Printf("%s node=%s session=%s", event.Type, event.NodeID, event.SessionID)
}

// JSONFileTelemetry writes events as newline-delimited JSON to a file so
// external tools can tail and process the stream.
type JSONFileTelemetry struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewJSONFileTelemetry opens (or creates) the log file.
func NewJSONFileTelemetry(path string) (*JSONFileTelemetry, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONFileTelemetry{file: f, enc: json.NewEncoder(f)}, nil
}

// Emit writes the JSON record.
func (j *JSONFileTelemetry) Emit(event Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(event)
}

// Close releases the underlying file.
func (j *JSONFileTelemetry) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
