package vinyl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// ModelExt is the file extension of game shape assets.
const ModelExt = ".modelbin"

// RecordSaver persists extracted geometry. DirStore implements it.
type RecordSaver interface {
	Save(d *RenderData) error
}

// ExtractOptions configures Extract. The zero value parses and validates
// only.
type ExtractOptions struct {
	// Saver receives every extracted record when set.
	Saver RecordSaver
	// Cache is pre-populated with every extracted record when set.
	Cache *Cache
	// ThumbnailDir receives a PNG preview per record, laid out like the
	// record store, when non-empty.
	ThumbnailDir string
	// Logger reports skipped files and parser warnings. Defaults to a no-op
	// logger.
	Logger *zap.Logger
}

// ExtractReport summarizes an extraction run.
type ExtractReport struct {
	Extracted []*RenderData
	// Unused lists files whose prefix maps to CategoryNone.
	Unused []string
	// Failed holds one error per file that could not be extracted.
	Failed []error
	// Warnings counts parser warnings over all files.
	Warnings int
}

// Err joins the per-file failures, or returns nil.
func (r *ExtractReport) Err() error {
	return errors.Join(r.Failed...)
}

// Extract parses every ModelExt file directly in dir of fsys, in lexical
// order. A file that fails is recorded in the report and the batch
// continues. The returned error is only set when dir cannot be listed.
func Extract(fsys fs.FS, dir string, opts ExtractOptions) (*ExtractReport, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	files, err := fs.Glob(fsys, path.Join(dir, "*"+ModelExt))
	if err != nil {
		return nil, fmt.Errorf("vinyl: list %s: %w", dir, err)
	}

	report := &ExtractReport{}
	for _, file := range files {
		d, err := extractFile(fsys, file, report, log)
		if err != nil {
			log.Warn("skip asset", zap.String("file", file), zap.Error(err))
			report.Failed = append(report.Failed, fmt.Errorf("%s: %w", file, err))
			continue
		}
		if d == nil {
			continue
		}
		if opts.Saver != nil {
			if err := opts.Saver.Save(d); err != nil {
				report.Failed = append(report.Failed, fmt.Errorf("%s: %w", file, err))
				continue
			}
		}
		if opts.ThumbnailDir != "" {
			if err := writeThumbnail(opts.ThumbnailDir, d); err != nil {
				log.Warn("thumbnail", zap.String("file", file), zap.Error(err))
			}
		}
		if opts.Cache != nil {
			opts.Cache.Add(d)
		}
		report.Extracted = append(report.Extracted, d)
	}
	log.Info("extracted assets",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("extracted", len(report.Extracted)),
		zap.Int("unused", len(report.Unused)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("warnings", report.Warnings))
	return report, nil
}

// extractFile parses and validates one file. It returns nil, nil for assets
// of unused categories.
func extractFile(fsys fs.FS, file string, report *ExtractReport, log *zap.Logger) (*RenderData, error) {
	src, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}
	d, warnings, err := ParseModel(src, path.Base(file))
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn("suspicious value",
			zap.String("file", file),
			zap.String("field", w.Field),
			zap.Int("index", w.Index),
			zap.String("detail", w.Detail))
	}
	report.Warnings += len(warnings)
	if d.ID.Category == CategoryNone {
		log.Debug("unused asset", zap.String("file", file))
		report.Unused = append(report.Unused, file)
		return nil, nil
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func writeThumbnail(root string, d *RenderData) error {
	dir := filepath.Join(root, d.ID.Category.DirName())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	s := NewShape(d)
	return WritePreviewPNG(filepath.Join(dir, strconv.Itoa(d.ID.Index)+".png"), s)
}
