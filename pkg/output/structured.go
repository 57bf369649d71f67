package output

import (
	"context"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/opscart/stack-advisor/pkg/models"
)

// JSONHandler writes indented JSON documents
type JSONHandler struct {
	enc *json.Encoder
}

func NewJSONHandler(w io.Writer) *JSONHandler {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONHandler{enc: enc}
}

func (h *JSONHandler) Format() string { return "json" }

func (h *JSONHandler) DisplayRun(_ context.Context, run *models.AdvisoryRun) error {
	return h.enc.Encode(run)
}

func (h *JSONHandler) DisplayHistory(_ context.Context, runs []*models.AdvisoryRun) error {
	if runs == nil {
		runs = []*models.AdvisoryRun{}
	}
	return h.enc.Encode(runs)
}

func (h *JSONHandler) DisplayAudit(_ context.Context, entries []*models.AuditEntry) error {
	if entries == nil {
		entries = []*models.AuditEntry{}
	}
	return h.enc.Encode(entries)
}

// YAMLHandler writes YAML documents
type YAMLHandler struct {
	w io.Writer
}

func NewYAMLHandler(w io.Writer) *YAMLHandler {
	return &YAMLHandler{w: w}
}

func (h *YAMLHandler) Format() string { return "yaml" }

func (h *YAMLHandler) encode(v any) error {
	enc := yaml.NewEncoder(h.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (h *YAMLHandler) DisplayRun(_ context.Context, run *models.AdvisoryRun) error {
	return h.encode(run)
}

func (h *YAMLHandler) DisplayHistory(_ context.Context, runs []*models.AdvisoryRun) error {
	return h.encode(runs)
}

func (h *YAMLHandler) DisplayAudit(_ context.Context, entries []*models.AuditEntry) error {
	return h.encode(entries)
}
