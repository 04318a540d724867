package document

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/geometry"

	"golang.org/x/sync/errgroup"
)

type Builder struct {
	scale   geometry.Scale
	workers int

	logger *slog.Logger
}

type Option func(*Builder)

func WithScale(scale geometry.Scale) Option {
	return func(b *Builder) {
		b.scale = scale
	}
}

func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

func NewBuilder(options ...Option) *Builder {
	b := &Builder{
		scale:   geometry.Identity,
		workers: 1,
	}

	for _, option := range options {
		option(b)
	}

	if b.workers < 1 {
		b.workers = 1
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Build assembles the document tree. Local defects are returned as warnings;
// only a cyclic graph or a cancelled context fail the build.
func (b *Builder) Build(ctx context.Context, store *block.Store) (*Document, []block.Warning, error) {
	resolver := block.NewResolver(store)

	if err := resolver.Verify(); err != nil {
		return nil, nil, err
	}

	pages := sortPages(store.Blocks(block.TypePage))

	results := make([]pageResult, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, p := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			pb := &pageBuilder{
				resolver: resolver,
				scale:    b.scale,
			}

			results[i] = pageResult{
				page:     pb.build(p, i+1),
				warnings: pb.warnings,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	doc := &Document{
		Pages: make([]Page, 0, len(results)),
	}

	var warnings []block.Warning

	for _, r := range results {
		doc.Pages = append(doc.Pages, r.page)
		warnings = append(warnings, r.warnings...)
	}

	b.logger.Debug("document built",
		"blocks", store.Len(),
		"pages", len(doc.Pages),
		"warnings", len(warnings))

	return doc, warnings, nil
}

type pageResult struct {
	page     Page
	warnings []block.Warning
}

// sortPages orders pages by their upstream page attribute. If any page lacks
// one, declaration order is kept.
func sortPages(pages []*block.Block) []*block.Block {
	sorted := slices.Clone(pages)

	for _, p := range sorted {
		if p.Page == 0 {
			return sorted
		}
	}

	slices.SortStableFunc(sorted, func(a, b *block.Block) int {
		return cmp.Compare(a.Page, b.Page)
	})

	return sorted
}

type pageBuilder struct {
	resolver *block.Resolver
	scale    geometry.Scale

	warnings []block.Warning
}

func (pb *pageBuilder) warn(w ...block.Warning) {
	pb.warnings = append(pb.warnings, w...)
}

func (pb *pageBuilder) build(p *block.Block, number int) Page {
	page := Page{
		Number: number,

		Lines:  []Line{},
		Tables: []Table{},
		Forms:  []FormField{},
	}

	children, warnings := pb.resolver.Children(p)
	pb.warn(warnings...)

	for _, c := range children {
		switch c.Type {
		case block.TypeLine:
			page.Lines = append(page.Lines, pb.line(c))

		case block.TypeTable:
			table := pb.table(c)
			table.Number = len(page.Tables) + 1

			page.Tables = append(page.Tables, table)

		case block.TypeKeyValueSet:
			if !c.Is(block.EntityKey) {
				continue
			}

			page.Forms = append(page.Forms, pb.field(c))
		}
	}

	return page
}

func (pb *pageBuilder) geometry(b *block.Block) *geometry.Geometry {
	if err := b.Geometry.Validate(); err != nil {
		pb.warn(block.Warning{
			Code:    block.WarningInvalidGeometry,
			BlockID: b.ID,
			Message: err.Error(),
		})
	}

	return geometry.Normalize(b.Geometry, pb.scale)
}

func (pb *pageBuilder) line(b *block.Block) Line {
	line := Line{
		Text:     b.Text,
		Geometry: pb.geometry(b),

		Words: []Word{},
	}

	words, warnings := pb.resolver.Children(b, block.TypeWord)
	pb.warn(warnings...)

	for _, w := range words {
		line.Words = append(line.Words, Word{
			Text:     w.Text,
			Geometry: pb.geometry(w),
		})
	}

	return line
}

func (pb *pageBuilder) table(b *block.Block) Table {
	cells, warnings := pb.resolver.Children(b, block.TypeCell)
	pb.warn(warnings...)

	type position struct {
		row    int
		column int
	}

	grid := make(map[position]Cell, len(cells))
	owner := make(map[position]string, len(cells))

	var unplaced []*block.Block

	for _, c := range cells {
		if c.RowIndex == nil || c.ColumnIndex == nil {
			unplaced = append(unplaced, c)
			continue
		}

		pos := position{*c.RowIndex, *c.ColumnIndex}

		if prev, ok := owner[pos]; ok {
			pb.warn(block.Warning{
				Code:     block.WarningDuplicateCell,
				BlockID:  c.ID,
				TargetID: prev,
				Message:  fmt.Sprintf("row %d, column %d already taken, replacing earlier cell", pos.row, pos.column),
			})
		}

		owner[pos] = c.ID
		grid[pos] = pb.cell(c, pos.row, pos.column)
	}

	// Cells without an index never replace another cell: a missing row is 0,
	// and a missing or occupied column becomes the next free one in that row.
	for _, c := range unplaced {
		row, column := 0, 0

		if c.RowIndex != nil {
			row = *c.RowIndex
		}

		if c.ColumnIndex != nil {
			column = *c.ColumnIndex
		}

		if _, taken := owner[position{row, column}]; taken {
			column = 0

			for pos := range owner {
				if pos.row == row {
					column = max(column, pos.column+1)
				}
			}
		}

		pos := position{row, column}

		pb.warn(block.Warning{
			Code:    block.WarningMissingCellIndex,
			BlockID: c.ID,
			Message: fmt.Sprintf("cell placed at row %d, column %d", row, column),
		})

		owner[pos] = c.ID
		grid[pos] = pb.cell(c, row, column)
	}

	positions := make([]position, 0, len(grid))

	for pos := range grid {
		positions = append(positions, pos)
	}

	slices.SortFunc(positions, func(a, b position) int {
		if c := cmp.Compare(a.row, b.row); c != 0 {
			return c
		}

		return cmp.Compare(a.column, b.column)
	})

	table := Table{
		Rows: []Row{},
	}

	for i, pos := range positions {
		if i == 0 || positions[i-1].row != pos.row {
			table.Rows = append(table.Rows, Row{})
		}

		last := len(table.Rows) - 1
		table.Rows[last] = append(table.Rows[last], grid[pos])
	}

	return table
}

func (pb *pageBuilder) cell(c *block.Block, row, column int) Cell {
	return Cell{
		Text:     pb.text(c),
		Geometry: pb.geometry(c),

		RowIndex:    row,
		ColumnIndex: column,
	}
}

func (pb *pageBuilder) field(key *block.Block) FormField {
	field := FormField{
		Key: Field{
			Text:     pb.text(key),
			Geometry: pb.geometry(key),
		},
	}

	values, warnings := pb.resolver.Values(key)
	pb.warn(warnings...)

	if len(values) == 0 {
		return field
	}

	if len(values) > 1 {
		pb.warn(block.Warning{
			Code:     block.WarningMultipleValues,
			BlockID:  key.ID,
			TargetID: values[0].ID,
			Message:  fmt.Sprintf("%d value targets, using the first", len(values)),
		})
	}

	value := values[0]

	if value.Type != block.TypeKeyValueSet || !value.Is(block.EntityValue) {
		pb.warn(block.Warning{
			Code:     block.WarningUnexpectedType,
			BlockID:  key.ID,
			TargetID: value.ID,
			Message:  fmt.Sprintf("value target is %s, not a VALUE key/value set", value.Type),
		})

		return field
	}

	field.Value = &Field{
		Text:     pb.text(value),
		Geometry: pb.geometry(value),
	}

	return field
}

// text returns the block's own text, or the text of its word and selection
// children joined by a single space.
func (pb *pageBuilder) text(b *block.Block) string {
	if b.Text != "" {
		return b.Text
	}

	children, warnings := pb.resolver.Children(b, block.TypeWord, block.TypeSelectionElement)
	pb.warn(warnings...)

	var parts []string

	for _, c := range children {
		switch c.Type {
		case block.TypeWord:
			if c.Text != "" {
				parts = append(parts, c.Text)
			}

		case block.TypeSelectionElement:
			if c.SelectionStatus != "" {
				parts = append(parts, string(c.SelectionStatus))
			}
		}
	}

	return strings.Join(parts, " ")
}
