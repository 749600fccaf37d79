package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Service implements check, extract and insert on top of the ports.
type Service struct {
	fetcher  Fetcher
	sink     Sink
	registry Registry
	logger   *slog.Logger

	mu    sync.RWMutex
	stats ServiceState
}

// NewService creates a new Service. A nil logger discards all records.
func NewService(fetcher Fetcher, sink Sink, registry Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		fetcher:  fetcher,
		sink:     sink,
		registry: registry,
		logger:   logger,
	}
}

// Load reads a manifest, detects its version and locates its annotation containers.
func (s *Service) Load(ctx context.Context, location string) (*Manifest, Adapter, error) {
	if location == "" {
		return nil, nil, errors.New("manifest location cannot be empty")
	}
	s.logger.Info("reading manifest", "location", location)
	raw, err := s.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, nil, err
	}
	adapter, err := s.registry.Detect(location, raw)
	if err != nil {
		return nil, nil, err
	}
	m, err := adapter.ParseManifest(raw)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) && perr.Location == "" {
			perr.Location = location
		}
		return nil, nil, err
	}
	m.Location = location
	s.count(func(st *ServiceState) { st.ManifestsLoaded++ })
	s.logger.Debug("manifest parsed", "id", m.ID, "version", m.Version.String(), "canvases", len(m.Canvases))
	return m, adapter, nil
}

// collection holds the annotations read from a manifest.
type collection struct {
	annotations []Annotation
	motivations map[string]struct{}
	unresolved  []string
}

// collect resolves every container of every canvas, in canvas order.
// References are fetched once per URI. Unreadable references are logged and
// skipped. Annotations without a usable target are kept with an empty Target.
func (s *Service) collect(ctx context.Context, m *Manifest, a Adapter) (*collection, error) {
	col := &collection{motivations: make(map[string]struct{})}
	seen := make(map[string]bool)

	for _, c := range m.Canvases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, container := range c.Containers {
			switch container.Kind {
			case ContainerInline:
				s.gather(col, a, container.Annotations)
			case ContainerReference:
				uri := s.fetcher.Resolve(m.Location, container.URI)
				if seen[uri] {
					s.logger.Debug("annotation reference already read", "canvas", c.ID, "uri", uri)
					continue
				}
				seen[uri] = true

				items, err := s.dereference(ctx, a, uri)
				if err != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					rerr := &UnresolvedReferenceError{Canvas: c.ID, URI: uri, Err: err}
					s.logger.Warn("skipping annotation reference", "error", rerr)
					s.count(func(st *ServiceState) { st.ReferencesUnresolved++ })
					col.unresolved = append(col.unresolved, uri)
					continue
				}
				s.gather(col, a, items)
			}
		}
	}
	return col, nil
}

func (s *Service) dereference(ctx context.Context, a Adapter, uri string) ([]JSON, error) {
	s.logger.Info("loading annotation reference", "uri", uri)
	raw, err := s.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	s.count(func(st *ServiceState) { st.ReferencesFetched++ })
	doc, err := a.ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	if doc.Items == nil {
		return nil, &ParseError{Location: uri, Reason: fmt.Sprintf("%s has no annotations", a.ContainerType())}
	}
	return doc.Items, nil
}

func (s *Service) gather(col *collection, a Adapter, items []JSON) {
	for _, raw := range items {
		anno, err := a.ParseAnnotation(raw)
		if err != nil {
			s.logger.Warn("annotation is not counted on any canvas", "error", err)
		}
		col.annotations = append(col.annotations, anno)
		if anno.Motivation != "" {
			col.motivations[anno.Motivation] = struct{}{}
		}
	}
}

// Check loads a manifest and counts its annotations per canvas.
func (s *Service) Check(ctx context.Context, location string) (*Report, error) {
	m, a, err := s.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	col, err := s.collect(ctx, m, a)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(m.Canvases))
	for _, anno := range col.annotations {
		if anno.Target != "" {
			counts[anno.Target]++
		}
	}

	report := &Report{
		Manifest:   m.ID,
		Location:   location,
		Label:      m.Label,
		Version:    int(m.Version),
		Canvases:   make([]CanvasReport, 0, len(m.Canvases)),
		Total:      len(col.annotations),
		Unresolved: col.unresolved,
	}
	matched := 0
	seen := make(map[string]bool, len(m.Canvases))
	for _, c := range m.Canvases {
		n := counts[c.ID]
		if !seen[c.ID] {
			seen[c.ID] = true
			matched += n
		}
		report.Canvases = append(report.Canvases, CanvasReport{ID: c.ID, Label: c.Label, Count: n})
	}
	report.Unmatched = report.Total - matched
	for mot := range col.motivations {
		report.Motivations = append(report.Motivations, mot)
	}
	sort.Strings(report.Motivations)

	s.logger.Info(fmt.Sprintf("IIIF %s manifest %s", m.Version, m.ID))
	s.logger.Info(fmt.Sprintf("* label: '%s'", m.Label))
	s.logger.Info(fmt.Sprintf("* %d canvases", len(m.Canvases)))
	s.logger.Info(fmt.Sprintf("* %d annotations", report.Total))
	if report.Total > 0 {
		s.logger.Info(fmt.Sprintf("  * on %d canvases", report.AnnotatedCanvases()))
		s.logger.Info(fmt.Sprintf("  * motivations: %s", strings.Join(report.Motivations, ", ")))
	}
	if report.Unmatched > 0 {
		s.logger.Warn("annotations are not on any canvas of the manifest", "count", report.Unmatched)
	}
	return report, nil
}

// Extract collects all annotations of a manifest into one standalone document.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, a, err := s.Load(ctx, req.Manifest)
	if err != nil {
		return nil, err
	}
	col, err := s.collect(ctx, m, a)
	if err != nil {
		return nil, err
	}
	s.logger.Info(fmt.Sprintf("IIIF %s manifest %s contains %d annotations", m.Version, m.ID, len(col.annotations)))

	id := filepath.Base(req.OutputFile)
	if req.URLPrefix != "" {
		id = joinURL(req.URLPrefix, id)
	}
	doc := a.MakeDocument(id, m.ID, col.annotations, true)

	s.logger.Info(fmt.Sprintf("writing IIIF %s %s", m.Version, a.ContainerType()), "path", req.OutputFile)
	if err := s.write(ctx, map[string]any{req.OutputFile: doc}, []string{req.OutputFile}); err != nil {
		return nil, err
	}
	return &ExtractResult{
		Version:     m.Version,
		OutputFile:  req.OutputFile,
		DocumentID:  id,
		Annotations: len(col.annotations),
		Unresolved:  col.unresolved,
	}, nil
}

// sequenceGroup gathers the annotations of one sequence for the sequence naming scheme.
type sequenceGroup struct {
	name  string
	link  string
	annos []Annotation
}

// Insert merges an annotation document into a manifest and writes the new
// manifest and, in reference mode, the annotation documents it links to.
func (s *Service) Insert(ctx context.Context, req InsertRequest) (*InsertResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	mode, _ := ParseReferenceMode(string(req.ReferenceMode))
	scheme, _ := ParseNameScheme(string(req.NameScheme))

	m, a, err := s.Load(ctx, req.Manifest)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reading annotation file", "location", req.InputFile)
	raw, err := s.fetcher.Fetch(ctx, req.InputFile)
	if err != nil {
		return nil, err
	}
	da, err := s.registry.ForDocument(req.InputFile, raw)
	if err != nil {
		return nil, err
	}
	if da.Version() != a.Version() {
		return nil, &VersionMismatchError{Manifest: a.Version(), Document: da.Version()}
	}
	doc, err := a.ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	if doc.Items == nil {
		return nil, &ParseError{Location: req.InputFile, Reason: fmt.Sprintf("%s has no annotations", a.ContainerType())}
	}

	groups, skipped := s.partition(m, a, doc.Items)

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(req.OutputManifest)
	}
	manifestID := m.ID
	if req.URLPrefix != "" {
		manifestID = joinURL(req.URLPrefix, filepath.Base(req.OutputManifest))
	}
	s.logger.Info("creating new manifest", "id", manifestID)

	result := &InsertResult{
		Version:        m.Version,
		ManifestID:     manifestID,
		OutputManifest: req.OutputManifest,
		Skipped:        skipped,
	}
	outputs := make(map[string]any)
	var order []string
	put := func(path string, v any) {
		outputs[path] = v
		order = append(order, path)
	}

	link := func(name string) string {
		if req.URLPrefix != "" {
			return joinURL(req.URLPrefix, name)
		}
		return relativeLink(filepath.Dir(req.OutputManifest), filepath.Join(outputDir, name))
	}

	names := newCanvasNamer()
	sequences := make(map[int]*sequenceGroup)
	var sequenceOrder []int
	warnedInline := false
	placed := make(map[string]bool)

	for _, c := range m.Canvases {
		annos := groups[c.ID]
		if len(annos) == 0 {
			continue
		}
		// A canvas listed in several sequences gets its annotations once,
		// at its first occurrence.
		if placed[c.ID] {
			s.logger.Debug("canvas already annotated in an earlier sequence", "canvas", c.ID, "sequence", c.Sequence)
			continue
		}
		placed[c.ID] = true
		result.Canvases++
		result.Inserted += len(annos)

		if mode == ReferenceModeInline {
			if m.Version == V2 && !warnedInline {
				s.logger.Warn("inline AnnotationLists are not allowed in the IIIF V2 presentation API")
				warnedInline = true
			}
			a.EmbedInline(c, a.MakeDocument(link(names.name(c)), manifestID, annos, false))
			continue
		}

		if scheme == NameSchemeCanvas {
			name := names.name(c)
			put(filepath.Join(outputDir, name), a.MakeDocument(link(name), manifestID, annos, true))
			a.EmbedReference(c, link(name))
			continue
		}

		g, ok := sequences[c.Sequence]
		if !ok {
			name := fmt.Sprintf("annolist-%d.json", c.Sequence)
			g = &sequenceGroup{name: name, link: link(name)}
			sequences[c.Sequence] = g
			sequenceOrder = append(sequenceOrder, c.Sequence)
		}
		g.annos = append(g.annos, annos...)
		a.EmbedReference(c, g.link)
	}
	for _, seq := range sequenceOrder {
		g := sequences[seq]
		put(filepath.Join(outputDir, g.name), a.MakeDocument(g.link, manifestID, g.annos, true))
	}
	result.Files = append(result.Files, order...)

	if manifestID != m.ID {
		a.SetID(m, manifestID)
	}
	put(req.OutputManifest, m.Raw)

	if err := s.write(ctx, outputs, order); err != nil {
		return nil, err
	}
	s.logger.Info("inserted annotations",
		"annotations", result.Inserted,
		"canvases", result.Canvases,
		"skipped", result.Skipped,
		"files", len(result.Files),
	)
	return result, nil
}

// partition groups annotations by target canvas. Annotations that cannot be
// placed are logged and counted as skipped.
func (s *Service) partition(m *Manifest, a Adapter, items []JSON) (map[string][]Annotation, int) {
	groups := make(map[string][]Annotation)
	canvases := make(map[string]bool, len(m.Canvases))
	for _, c := range m.Canvases {
		canvases[c.ID] = true
	}
	skipped := 0
	for _, raw := range items {
		anno, err := a.ParseAnnotation(raw)
		if err != nil {
			s.logger.Warn("skipping annotation", "error", err)
			skipped++
			continue
		}
		if !canvases[anno.Target] {
			err := &UnresolvableTargetError{
				Annotation: anno.ID,
				Target:     anno.Target,
				Reason:     fmt.Sprintf("not a canvas of manifest %s", m.ID),
			}
			s.logger.Warn("skipping annotation", "error", err)
			skipped++
			continue
		}
		groups[anno.Target] = append(groups[anno.Target], anno)
	}
	return groups, skipped
}

// write stages outputs in order and commits them in one transaction.
func (s *Service) write(ctx context.Context, outputs map[string]any, order []string) (err error) {
	tx, err := s.sink.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, path := range order {
		if err := tx.Put(ctx, path, outputs[path]); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.count(func(st *ServiceState) { st.DocumentsWritten += len(order) })
	return nil
}

func (s *Service) count(fn func(*ServiceState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.stats)
}

func joinURL(prefix, name string) string {
	return strings.TrimRight(prefix, "/") + "/" + name
}

// relativeLink returns target relative to dir, slash separated.
func relativeLink(dir, target string) string {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		rel = target
	}
	return filepath.ToSlash(rel)
}
