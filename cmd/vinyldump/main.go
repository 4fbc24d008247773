// Vinyldump extracts the shape geometry from a directory of game .modelbin
// assets into a record store, optionally writing PNG thumbnails and one
// painter contact sheet per category.
//
// Usage:
//
//	vinyldump -in ./game/vinyls -out ./vinyls [-thumbs ./thumbs] [-sheets ./sheets] [-debug]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/phanxgames/vinyl"
	"go.uber.org/zap"
)

func main() {
	in := flag.String("in", ".", "directory holding the .modelbin assets")
	out := flag.String("out", "vinyls", "record store directory")
	thumbs := flag.String("thumbs", "", "write a PNG thumbnail per asset under this directory")
	sheets := flag.String("sheets", "", "write one painter contact sheet per category to this directory")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	report, err := vinyl.Extract(os.DirFS(*in), ".", vinyl.ExtractOptions{
		Saver:        vinyl.DirStore{Root: *out},
		ThumbnailDir: *thumbs,
		Logger:       l,
	})
	if err != nil {
		l.Fatal("extract", zap.String("dir", *in), zap.Error(err))
	}
	for _, err := range report.Failed {
		l.Error("failed asset", zap.Error(err))
	}

	if *sheets != "" {
		if err := writeSheets(*sheets, report.Extracted, l); err != nil {
			l.Fatal("contact sheets", zap.Error(err))
		}
	}

	fmt.Printf("%d extracted, %d unused, %d failed, %d warnings\n",
		len(report.Extracted), len(report.Unused), len(report.Failed), report.Warnings)
	if len(report.Failed) > 0 {
		l.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

// writeSheets groups datas by category and saves a contact sheet layout for
// each as <dir>/<DirName>.json.
func writeSheets(dir string, datas []*vinyl.RenderData, l *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	byCategory := make(map[vinyl.Category][]*vinyl.RenderData)
	for _, d := range datas {
		byCategory[d.ID.Category] = append(byCategory[d.ID.Category], d)
	}
	for _, c := range vinyl.Categories() {
		group := byCategory[c]
		if len(group) == 0 {
			continue
		}
		slices.SortFunc(group, func(a, b *vinyl.RenderData) int { return a.ID.Index - b.ID.Index })
		layout := vinyl.NewLayout(vinyl.WithLogger(l))
		layout.Name = c.DirName()
		vinyl.ContactSheet(layout, group)
		path := filepath.Join(dir, c.DirName()+".json")
		if err := vinyl.SavePainterFile(path, layout); err != nil {
			return err
		}
		l.Info("wrote contact sheet", zap.String("path", path), zap.Int("shapes", len(group)))
	}
	return nil
}
