package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vilaca/issue-archive/internal/dashboard"
	"github.com/vilaca/issue-archive/internal/domain"
	"github.com/vilaca/issue-archive/internal/issues"
	"github.com/vilaca/issue-archive/internal/router"
)

const (
	dataFile = "issues.json"

	maxConcurrentWrites = 8
)

// ArchiveWriter renders the static archive: one directory per view, each
// with an index.html, plus the issues.json data file.
type ArchiveWriter struct {
	renderer dashboard.Renderer
	outDir   string
	logger   Logger
}

// NewArchiveWriter creates an archive writer. renderer should be a static
// renderer so pages carry the client-side view state script.
func NewArchiveWriter(renderer dashboard.Renderer, outDir string, logger Logger) *ArchiveWriter {
	return &ArchiveWriter{
		renderer: renderer,
		outDir:   outDir,
		logger:   logger,
	}
}

// ArchiveResult summarizes a written archive.
type ArchiveResult struct {
	Pages   int
	Skipped int
}

type archivePage struct {
	segments []string
	render   func(w io.Writer, page dashboard.Page) error
	state    issues.ViewState
}

// Write renders every page for all and writes the data file.
func (a *ArchiveWriter) Write(ctx context.Context, all []domain.Issue) (*ArchiveResult, error) {
	pages, skipped := a.plan(all)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	for _, p := range pages {
		p := p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.writePage(all, p)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := NewSnapshotFile(filepath.Join(a.outDir, dataFile), a.logger).Save(all); err != nil {
		return nil, fmt.Errorf("write %s: %w", dataFile, err)
	}

	a.logger.Infof("Archive written to %s (%d pages, %d issues)", a.outDir, len(pages), len(all))
	return &ArchiveResult{Pages: len(pages), Skipped: skipped}, nil
}

// plan lists the pages to write. Repositories and issues whose names
// cannot be used as directory names are skipped.
func (a *ArchiveWriter) plan(all []domain.Issue) ([]archivePage, int) {
	state := issues.DefaultState()
	pages := []archivePage{
		{segments: nil, render: a.renderer.RenderBrowser, state: state},
		{segments: []string{"list"}, render: a.renderer.RenderList, state: state},
		{segments: []string{"grouped"}, render: a.renderer.RenderGrouped, state: state},
	}

	skipped := 0
	for _, group := range issues.Group(all) {
		if !safeSegment(group.Owner) || !safeSegment(group.Name) {
			a.logger.Warnf("Skipping %s: not usable as a path", group.Key())
			skipped += 1 + len(group.Issues)
			continue
		}

		pages = append(pages, archivePage{
			segments: []string{"repo", group.Owner, group.Name},
			render:   a.renderer.RenderBrowser,
			state:    state.WithRoute(router.Repo(group.Owner, group.Name)),
		})
		for _, issue := range group.Issues {
			pages = append(pages, archivePage{
				segments: []string{"issue", group.Owner, group.Name, strconv.Itoa(issue.Number)},
				render:   a.renderer.RenderBrowser,
				state:    state.WithRoute(router.Issue(group.Owner, group.Name, issue.Number)),
			})
		}
	}
	return pages, skipped
}

func (a *ArchiveWriter) writePage(all []domain.Issue, p archivePage) error {
	var buf bytes.Buffer
	if err := p.render(&buf, dashboard.Page{Issues: all, State: p.state}); err != nil {
		return fmt.Errorf("render %s: %w", p.state.Route.Path(), err)
	}

	dir := filepath.Join(append([]string{a.outDir}, p.segments...)...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, dashboard.IndexFile), buf.Bytes(), 0644)
}

// safeSegment reports whether s can be used as one directory name.
func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
