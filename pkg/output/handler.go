package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/opscart/stack-advisor/pkg/models"
)

// Handler defines the interface for output formatting
type Handler interface {
	DisplayRun(ctx context.Context, run *models.AdvisoryRun) error
	DisplayHistory(ctx context.Context, runs []*models.AdvisoryRun) error
	DisplayAudit(ctx context.Context, entries []*models.AuditEntry) error
	Format() string
}

// New returns the handler for format, writing to w (stdout when nil)
func New(format string, w io.Writer) (Handler, error) {
	if w == nil {
		w = os.Stdout
	}
	switch format {
	case "", "text":
		return NewTextHandler(w), nil
	case "json":
		return NewJSONHandler(w), nil
	case "yaml":
		return NewYAMLHandler(w), nil
	}
	return nil, fmt.Errorf("unsupported output format %q (use text, json or yaml)", format)
}
