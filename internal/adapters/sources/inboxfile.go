package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// InboxFileSource reads subscription signals from an inbox-export JSON
// file: a flat array of EmailSignal objects, as produced by the mailbox
// analysis step upstream of this tool.
type InboxFileSource struct {
	path   string
	logger *slog.Logger
}

// NewInboxFileSource creates a file-backed email source.
func NewInboxFileSource(path string, logger *slog.Logger) *InboxFileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &InboxFileSource{path: path, logger: logger}
}

// Compile-time check that InboxFileSource implements EmailSource
var _ EmailSource = (*InboxFileSource)(nil)

// FindSubscriptionSignals loads and decodes the export file. Signals with
// an empty name are dropped here: the core assumes every adapted record
// carries at least a name.
func (s *InboxFileSource) FindSubscriptionSignals(ctx context.Context) ([]EmailSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inbox export %s: %w", s.path, err)
	}

	var signals []EmailSignal
	if err := json.Unmarshal(data, &signals); err != nil {
		return nil, fmt.Errorf("failed to parse inbox export %s: %w", s.path, err)
	}

	valid := signals[:0]
	for _, sig := range signals {
		if sig.Name == "" {
			s.logger.Warn("Dropping inbox signal without a name")
			continue
		}
		valid = append(valid, sig)
	}

	s.logger.Debug("Loaded inbox signals", "path", s.path, "count", len(valid))

	return valid, nil
}
