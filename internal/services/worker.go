package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumatch/internal/repositories"
)

const pendingPollInterval = 10 * time.Second

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(analysisID uuid.UUID)
}

type worker struct {
	analysisRepo repositories.AnalysisRepository
	analyzer     AnalyzerService
	jobQueue     chan uuid.UUID
	concurrency  int
	wg           sync.WaitGroup
	stopChan     chan struct{}
	logger       *zap.Logger
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	analyzer AnalyzerService,
	concurrency int,
	logger *zap.Logger,
) Worker {
	return &worker{
		analysisRepo: analysisRepo,
		analyzer:     analyzer,
		jobQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		stopChan:     make(chan struct{}),
		logger:       logger,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting analysis workers", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	// Requeue analyses that were enqueued before a restart.
	w.wg.Add(1)
	go w.pollQueued(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.logger.Info("stopping analysis workers")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("analysis workers stopped")
}

// Enqueue implements Worker.
func (w *worker) Enqueue(analysisID uuid.UUID) {
	select {
	case w.jobQueue <- analysisID:
		w.logger.Debug("analysis enqueued", zap.String("analysis_id", analysisID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, dropping analysis", zap.String("analysis_id", analysisID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case analysisID := <-w.jobQueue:
			w.logger.Info("processing analysis",
				zap.Int("worker", workerID),
				zap.String("analysis_id", analysisID.String()),
			)
			if err := w.analyzer.Analyze(ctx, analysisID); err != nil {
				w.logger.Error("analysis failed",
					zap.Int("worker", workerID),
					zap.String("analysis_id", analysisID.String()),
					zap.Error(err),
				)
			}
		}
	}
}

func (w *worker) pollQueued(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(pendingPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.analysisRepo.FindPending(10)
			if err != nil {
				w.logger.Warn("failed to fetch queued analyses", zap.Error(err))
				continue
			}
			if len(pending) > 0 {
				w.logger.Info("requeuing stuck analyses", zap.Int("count", len(pending)))
			}
			for _, analysis := range pending {
				w.Enqueue(analysis.ID)
			}
		}
	}
}
