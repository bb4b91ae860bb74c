// ABOUTME: JSONL conversation persistence with append-only writes
// ABOUTME: Reads line-by-line with bufio.Scanner; crash-safe via O_APPEND; skips malformed lines

package session

import (
	"bufio"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mauromedda/pi-offline-go/internal/config"
	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/intent"
)

// RecordType identifies the type of JSONL record.
type RecordType string

const (
	RecordSessionStart RecordType = "session_start"
	RecordUser         RecordType = "user"
	RecordAssistant    RecordType = "assistant"
	RecordTransition   RecordType = "transition"
	RecordClear        RecordType = "clear"
	RecordSessionEnd   RecordType = "session_end"
)

const recordVersion = 1

// Record is the envelope for all JSONL entries.
type Record struct {
	Version int             `json:"v"`
	Type    RecordType      `json:"type"`
	TS      string          `json:"ts"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Time parses the record timestamp; the zero time is returned for bad values.
func (r Record) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.TS)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SessionStartData holds session_start metadata.
type SessionStartData struct {
	ID      string `json:"id"`
	Mode    string `json:"mode"`
	CWD     string `json:"cwd,omitempty"`
	Started string `json:"started,omitempty"`
}

// UserData holds a user turn.
type UserData struct {
	Content string `json:"content"`
}

// AssistantData holds a reply together with the analysis that produced it.
type AssistantData struct {
	Content    string         `json:"content"`
	Intent     intent.Intent  `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   []entity.Label `json:"entities,omitempty"`
	Branch     string         `json:"branch,omitempty"`
	Source     string         `json:"source,omitempty"`
}

// TransitionData holds an intent change.
type TransitionData struct {
	From intent.Intent `json:"from"`
	To   intent.Intent `json:"to"`
}

// NewID returns a short random session identifier.
func NewID() string {
	return uuid.NewString()[:8]
}

// Store locates session files in a directory.
type Store struct {
	Dir string
}

// DefaultStore returns the store under the global sessions directory.
func DefaultStore() Store {
	return Store{Dir: config.SessionsDir()}
}

// Path returns the JSONL file for id.
func (s Store) Path(id string) string {
	return filepath.Join(s.Dir, id+".jsonl")
}

// Exists reports whether a session file for id is present.
func (s Store) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Writer appends records to a session JSONL file.
type Writer struct {
	file *os.File
	now  func() time.Time
}

// OpenWriter opens (creating if needed) the session file for id in append mode.
func (s Store) OpenWriter(id string) (*Writer, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	if err := config.EnsureDir(s.Dir); err != nil {
		return nil, fmt.Errorf("creating sessions dir: %w", err)
	}
	f, err := os.OpenFile(s.Path(id), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	return &Writer{file: f, now: time.Now}, nil
}

// WriteRecord appends a record to the session file.
func (w *Writer) WriteRecord(recType RecordType, data any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling record data: %w", err)
	}

	rec := Record{
		Version: recordVersion,
		Type:    recType,
		TS:      w.now().UTC().Format(time.RFC3339Nano),
		Data:    dataBytes,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	line = append(line, '\n')
	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Close closes the session file.
func (w *Writer) Close() error {
	return w.file.Close()
}

// ReadRecords reads all records from a session file.
func (s Store) ReadRecords(id string) ([]Record, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path(id))
	if err != nil {
		return nil, fmt.Errorf("opening session %s: %w", id, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024) // 10MB max line

	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue // Skip malformed lines
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scanning session %s: %w", id, err)
	}
	return records, nil
}

// LoadHistory rebuilds the conversation history of a session. A clear record
// drops every turn written before it.
func (s Store) LoadHistory(id string) (conversation.History, error) {
	records, err := s.ReadRecords(id)
	if err != nil {
		return nil, err
	}
	return HistoryFromRecords(records), nil
}

// HistoryFromRecords replays user, assistant and clear records into a history.
func HistoryFromRecords(records []Record) conversation.History {
	var h conversation.History
	for _, rec := range records {
		switch rec.Type {
		case RecordUser:
			var d UserData
			if json.Unmarshal(rec.Data, &d) == nil {
				h = append(h, conversation.UserTurn(d.Content, rec.Time()))
			}
		case RecordAssistant:
			var d AssistantData
			if json.Unmarshal(rec.Data, &d) == nil {
				h = append(h, conversation.AssistantTurn(d.Content, rec.Time()))
			}
		case RecordClear:
			h = nil
		}
	}
	return h
}

// Info summarizes a stored session.
type Info struct {
	SessionStartData
	Turns    int       `json:"turns"`
	Modified time.Time `json:"modified"`
}

// List scans the store and returns every session, most recently modified first.
// A missing directory yields no sessions.
func (s Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sessions dir: %w", err)
	}

	var sessions []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jsonl" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".jsonl")
		records, err := s.ReadRecords(id)
		if err != nil || len(records) == 0 || records[0].Type != RecordSessionStart {
			continue
		}
		var start SessionStartData
		if err := json.Unmarshal(records[0].Data, &start); err != nil {
			continue
		}
		info := Info{SessionStartData: start, Turns: len(HistoryFromRecords(records))}
		if fi, err := entry.Info(); err == nil {
			info.Modified = fi.ModTime()
		}
		sessions = append(sessions, info)
	}

	slices.SortFunc(sessions, func(a, b Info) int {
		if c := b.Modified.Compare(a.Modified); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sessions, nil
}

// Latest returns the ID of the most recently modified session.
func (s Store) Latest() (string, error) {
	sessions, err := s.List()
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", fmt.Errorf("no sessions in %s", s.Dir)
	}
	return sessions[0].ID, nil
}

// Fork duplicates a session under a new ID. The copy's start record carries
// the new ID; the original is left unchanged.
func (s Store) Fork(id string) (string, error) {
	records, err := s.ReadRecords(id)
	if err != nil {
		return "", err
	}

	newID := NewID()
	f, err := os.OpenFile(s.Path(newID), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating forked session: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, rec := range records {
		if rec.Type == RecordSessionStart {
			var start SessionStartData
			if json.Unmarshal(rec.Data, &start) == nil {
				start.ID = newID
				if b, err := json.Marshal(start); err == nil {
					rec.Data = b
				}
			}
		}
		if err := enc.Encode(rec); err != nil {
			return "", fmt.Errorf("writing forked session: %w", err)
		}
	}
	return newID, nil
}

// Delete removes a stored session.
func (s Store) Delete(id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return os.Remove(s.Path(id))
}

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}
