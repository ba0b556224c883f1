package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"texengine/parallel"
	"texengine/streamio"
)

// runBatch converts every regular file under scan into a PVRTC texture
// under dest, fanning the work out across a worker pool sized workers (0
// means GOMAXPROCS), mirroring the picture-mangling tool's folder-scan
// pattern: per-file errors are logged and counted rather than aborting the
// run, and a final stats line reports the tally.
func runBatch(tk *toolkit, scan, dest, target string, workers int) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("batch: could not create destination folder %q: %w", dest, err)
	}

	files, err := os.ReadDir(scan)
	if err != nil {
		return fmt.Errorf("batch: could not read folder %q: %w", scan, err)
	}

	pool := parallel.Start(workers)

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		pool.Do(func(fileName string) func() {
			return func() {
				srcPath := filepath.Join(scan, fileName)
				logger := slog.Default().With("file", srcPath)

				if err := convertOneBatchFile(tk, target, srcPath, dest, fileName); err != nil {
					errCount.Add(1)
					logger.Error("could not convert file", "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(file.Name()))
	}

	pool.Wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors, "total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error converting %d files", errors)
	}
	return nil
}

// convertOneBatchFile reuses runConvert's decode-and-compress path but
// writes to a temporary file first, renaming into place only on success, so
// a worker crash or encode failure never leaves a half-written texture
// behind in dest.
func convertOneBatchFile(tk *toolkit, target, srcPath, dest, srcName string) (err error) {
	oldExt := filepath.Ext(srcName)
	destName := fmt.Sprintf("%s.pvr", strings.TrimSuffix(srcName, oldExt))

	outFile, err := os.CreateTemp(dest, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename {
			if defErr := os.Rename(outFile.Name(), filepath.Join(dest, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		} else {
			os.Remove(outFile.Name())
		}
	}()

	payload, err := compressFileToPVR(tk, target, srcPath)
	if err != nil {
		return err
	}

	if err = tk.pvr.SerializeTexture(streamio.NewFileStream(outFile), payload); err != nil {
		return fmt.Errorf("could not serialize destination %q: %w", destName, err)
	}

	canRename = true
	return nil
}
