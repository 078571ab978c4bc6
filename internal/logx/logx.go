package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"toolchest/internal/paths"
)

// New creates a logger that writes to a timestamped file inside the
// state logs directory. The file name carries a short run ID so
// concurrent runs don't collide and log lines can be correlated with
// trace output. The returned closer should be closed when logging is no
// longer needed.
func New(p paths.AppPaths) (*log.Logger, string, io.Closer, error) {
	if err := os.MkdirAll(p.LogsDir, 0o755); err != nil {
		return nil, "", nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	runID := uuid.NewString()[:8]
	filename := time.Now().Format("20060102-150405") + "-" + runID + ".log"
	filePath := filepath.Join(p.LogsDir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	logger.Printf("run %s started", runID)
	return logger, runID, file, nil
}
