package textsplitter

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// DefaultHeadingLevel is the deepest heading starting a new section.
const DefaultHeadingLevel = 2

// Markdown is a structure-aware splitter: it parses the document with
// goldmark and cuts at headings, so a chunk never straddles a section
// boundary. Sections larger than the chunk size are re-split with the
// recursive character splitter.
type Markdown struct {
	opts     options
	fallback *RecursiveCharacter
	markdown goldmark.Markdown
}

var _ TextSplitter = (*Markdown)(nil)

// NewMarkdown creates a heading-aware markdown splitter. Returns an error
// when the overlap is not smaller than the chunk size.
func NewMarkdown(opts ...Option) (*Markdown, error) {
	o := options{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		headingLevel: DefaultHeadingLevel,
	}

	for _, opt := range opts {
		opt(&o)
	}

	fallback, err := NewRecursiveCharacter(
		WithChunkSize(o.chunkSize),
		WithChunkOverlap(o.chunkOverlap),
	)
	if err != nil {
		return nil, err
	}

	return &Markdown{
		opts:     o,
		fallback: fallback,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}, nil
}

// SplitText splits markdown text at section boundaries.
func (s *Markdown) SplitText(ctx context.Context, content string) ([]string, error) {
	source := []byte(content)
	reader := text.NewReader(source)
	doc := s.markdown.Parser().Parse(reader)

	boundaries := s.sectionBoundaries(doc, source)
	sections := cutSections(content, boundaries)

	var chunks []string
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		if len(section) <= s.opts.chunkSize {
			chunks = append(chunks, section)
			continue
		}
		subChunks, err := s.fallback.SplitText(ctx, section)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, subChunks...)
	}

	return chunks, nil
}

// sectionBoundaries returns the byte offsets of the lines carrying headings
// up to the configured level.
func (s *Markdown) sectionBoundaries(doc ast.Node, source []byte) []int {
	var boundaries []int

	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		heading, ok := child.(*ast.Heading)
		if !ok || heading.Level > s.opts.headingLevel {
			continue
		}
		if heading.Lines().Len() == 0 {
			continue
		}

		// The segment starts after the "#" markers; rewind to the
		// beginning of the line.
		segment := heading.Lines().At(0)
		lineStart := bytes.LastIndexByte(source[:segment.Start], '\n') + 1
		boundaries = append(boundaries, lineStart)
	}

	return boundaries
}

func cutSections(content string, boundaries []int) []string {
	if len(boundaries) == 0 {
		return []string{content}
	}

	var sections []string
	if boundaries[0] > 0 {
		sections = append(sections, content[:boundaries[0]])
	}
	for i, start := range boundaries {
		end := len(content)
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		sections = append(sections, content[start:end])
	}

	return sections
}
