package storage

import (
	"context"

	"github.com/opscart/stack-advisor/pkg/models"
)

// Store defines the interface for persistent storage
type Store interface {
	SaveRun(ctx context.Context, run *models.AdvisoryRun) error
	GetRun(ctx context.Context, id string) (*models.AdvisoryRun, error)
	ListRuns(ctx context.Context, cluster string, limit int) ([]*models.AdvisoryRun, error)

	LogAction(ctx context.Context, entry *models.AuditEntry) error
	GetAuditLog(ctx context.Context, service string, limit int) ([]*models.AuditEntry, error)

	Ping(ctx context.Context) error
	Close() error
}
