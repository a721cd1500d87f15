// Package hooks binds each backend resource to the query cache: reads are
// cached under the resource's root key and writes expire that root.
package hooks

import (
	"context"
	"time"

	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/models"
	"github.com/fatla/fatla-admin/internal/query"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Request carries what one admin request needs to reach the backend.
type Request struct {
	API   apiclient.Caller
	Lang  string
	Actor string
}

func (r Request) lang() string {
	return apiclient.NormalizeLang(r.Lang)
}

// Auditor records successful writes. A nil Auditor disables auditing.
type Auditor interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
}

type Config struct {
	StaleTime          time.Duration
	DashboardStaleTime time.Duration
}

// Binder holds what every binding shares.
type Binder struct {
	queries *query.Client
	audit   Auditor
	logger  *logrus.Logger
	cfg     Config
	now     func() time.Time
}

func NewBinder(queries *query.Client, audit Auditor, logger *logrus.Logger, cfg Config) *Binder {
	return &Binder{
		queries: queries,
		audit:   audit,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// mutate runs fn through the query client and audits it once it succeeded.
func (b *Binder) mutate(ctx context.Context, req Request, resource, action, targetID, fallback string, roots []string, fn func(ctx context.Context) error) error {
	err := b.queries.Mutate(ctx, query.MutationOptions{
		Invalidate:   roots,
		ErrorMessage: fallback,
	}, fn)
	if err != nil {
		b.logger.WithError(err).WithFields(logrus.Fields{
			"resource": resource,
			"action":   action,
			"target":   targetID,
		}).Warn("Mutation failed")
		return err
	}

	b.record(ctx, req, resource, action, targetID)
	return nil
}

func (b *Binder) record(ctx context.Context, req Request, resource, action, targetID string) {
	if b.audit == nil {
		return
	}
	entry := &models.AuditEntry{
		ID:       uuid.New().String(),
		Resource: resource,
		Action:   action,
		TargetID: targetID,
		Actor:    req.Actor,
		At:       b.now().UTC(),
	}
	if err := b.audit.Record(ctx, entry); err != nil {
		b.logger.WithError(err).WithField("resource", resource).Error("Failed to record audit entry")
	}
}
