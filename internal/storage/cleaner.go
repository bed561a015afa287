package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/middleware"
)

const (
	cleanerQueueSize  = 256
	cleanerMaxRetries = 3
	cleanerRetryDelay = 2 * time.Second
)

type cleanupJob struct {
	relPath  string
	attempts int
}

// Cleaner removes stale uploaded files off the request path. Deletions are
// queued by handlers and drained by a single worker that retries transient
// failures and logs permanent ones.
type Cleaner struct {
	mounts map[string]string
	queue  chan cleanupJob
	logger *slog.Logger
}

// NewCleaner creates a cleaner. mounts maps the URL prefix files are stored
// under to the directory holding them, e.g. "/uploads" -> "public/uploads".
func NewCleaner(mounts map[string]string) *Cleaner {
	return &Cleaner{
		mounts: mounts,
		queue:  make(chan cleanupJob, cleanerQueueSize),
		logger: middleware.Logger,
	}
}

// Enqueue schedules a stored file path (e.g. "/uploads/<name>") for deletion.
// Non-blocking: when the queue is full the job is dropped and logged.
func (c *Cleaner) Enqueue(relPath string) {
	if relPath == "" {
		return
	}
	select {
	case c.queue <- cleanupJob{relPath: relPath}:
	default:
		middleware.UploadsCleaned.WithLabelValues("dropped").Inc()
		c.logger.Warn("upload cleanup queue full, dropping job", slog.String("path", relPath))
	}
}

// Start runs the worker loop until ctx is canceled.
func (c *Cleaner) Start(ctx context.Context) {
	go c.workerLoop(ctx)
}

func (c *Cleaner) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-c.queue:
			c.process(ctx, job)
		}
	}
}

func (c *Cleaner) process(ctx context.Context, job cleanupJob) {
	abs, ok := c.resolve(job.relPath)
	if !ok {
		middleware.UploadsCleaned.WithLabelValues("rejected").Inc()
		c.logger.Warn("upload cleanup rejected path outside root", slog.String("path", job.relPath))
		return
	}

	err := os.Remove(abs)
	if err == nil || os.IsNotExist(err) {
		middleware.UploadsCleaned.WithLabelValues("removed").Inc()
		return
	}

	job.attempts++
	if job.attempts >= cleanerMaxRetries {
		middleware.UploadsCleaned.WithLabelValues("failed").Inc()
		c.logger.Error("upload cleanup failed",
			slog.String("path", job.relPath),
			slog.Int("attempts", job.attempts),
			slog.String("error", err.Error()),
		)
		return
	}

	if !sleepContext(ctx, cleanerRetryDelay) {
		return
	}
	select {
	case c.queue <- job:
	default:
		middleware.UploadsCleaned.WithLabelValues("dropped").Inc()
	}
}

// resolve maps a stored URL path onto its mounted directory, refusing
// anything that escapes it.
func (c *Cleaner) resolve(relPath string) (string, bool) {
	cleaned := filepath.Clean("/" + strings.TrimPrefix(relPath, "/"))
	if strings.Contains(cleaned, "..") {
		return "", false
	}
	for prefix, dir := range c.mounts {
		if rest, ok := strings.CutPrefix(cleaned, prefix+"/"); ok && rest != "" {
			return filepath.Join(dir, rest), true
		}
	}
	return "", false
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
