package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/classlab/backend/internal/attendance"
	"github.com/classlab/backend/internal/models"
	"github.com/classlab/backend/pkg/queue"
)

// ClassSummaryProcessor consumes class-summary jobs enqueued when a live
// classroom empties and persists the aggregate row.
type ClassSummaryProcessor struct {
	repo   *attendance.Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewClassSummaryProcessor creates a class-summary processor.
func NewClassSummaryProcessor(repo *attendance.Repository, q *queue.Queue, logger *zap.Logger) *ClassSummaryProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassSummaryProcessor{repo: repo, queue: q, logger: logger}
}

// Process executes one class-summary job.
func (p *ClassSummaryProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeClassSummary {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ClassSummaryPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	summary := &models.ClassSummary{
		RoomID:           payload.RoomID,
		OpenedAt:         payload.OpenedAt,
		ClosedAt:         payload.ClosedAt,
		PeakParticipants: payload.PeakParticipants,
		ChatMessages:     payload.ChatMessages,
		Polls:            payload.Polls,
		Questions:        payload.Questions,
	}
	if err := p.repo.InsertSummary(ctx, summary); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	p.logger.Info("class summary written",
		zap.String("room_id", payload.RoomID),
		zap.Int("peak_participants", payload.PeakParticipants),
		zap.Int("chat_messages", payload.ChatMessages))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *ClassSummaryProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("class summary worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
