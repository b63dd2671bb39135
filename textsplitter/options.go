package textsplitter

// options holds configuration settings shared by the splitters.
type options struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
	headingLevel int
}

// Option is a function type for configuring a splitter.
type Option func(*options)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the number of characters repeated between
// consecutive chunks.
func WithChunkOverlap(overlap int) Option {
	return func(o *options) {
		if overlap >= 0 {
			o.chunkOverlap = overlap
		}
	}
}

// WithSeparators overrides the separator list of the recursive splitter,
// ordered from coarsest to finest.
func WithSeparators(separators []string) Option {
	return func(o *options) {
		if len(separators) > 0 {
			o.separators = separators
		}
	}
}

// WithHeadingLevel sets the deepest markdown heading level that starts a
// new section.
func WithHeadingLevel(level int) Option {
	return func(o *options) {
		if level > 0 && level <= 6 {
			o.headingLevel = level
		}
	}
}
