package refund

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSender writes each refund request as a text file in an output
// directory, ready for review before anything is actually sent.
type FileSender struct {
	dir string
}

// NewFileSender creates a file-based sender.
func NewFileSender(dir string) *FileSender {
	return &FileSender{dir: dir}
}

// Compile-time check that FileSender implements Sender
var _ Sender = (*FileSender)(nil)

// Send writes the request to <dir>/refund_<id>.txt.
func (f *FileSender) Send(req Request) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create refund dir %s: %w", f.dir, err)
	}

	path := filepath.Join(f.dir, fmt.Sprintf("refund_%s.txt", req.ID))
	content := fmt.Sprintf("To: %s\nSubject: %s\n\n%s", req.To, req.Subject, req.Body)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write refund request %s: %w", path, err)
	}

	return nil
}

// DiscardSender drops requests without delivering them. Used for dry runs.
type DiscardSender struct{}

// Send does nothing.
func (DiscardSender) Send(Request) error { return nil }
