package domain

// BlockKind discriminates the document elements the checks care about.
// Prose is deliberately not materialized.
type BlockKind string

const (
	BlockHeading BlockKind = "heading"
	BlockCode    BlockKind = "code"
	BlockLink    BlockKind = "link"
	BlockImage   BlockKind = "image"
)

// Block is one element of a parsed lesson document. Fields are
// kind-dependent; unused fields stay zero.
type Block struct {
	Kind BlockKind
	Line int // 1-based line in the lesson file

	// Heading
	Level int
	Text  string

	// Code
	Lang string
	Code string

	// Link / Image
	Target string
	Label  string
}

// Document is the ordered sequence of checked elements of one lesson body.
type Document struct {
	Blocks []Block
}

func (d Document) ofKind(k BlockKind) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Kind == k {
			out = append(out, b)
		}
	}
	return out
}

// Headings returns heading blocks in document order.
func (d Document) Headings() []Block { return d.ofKind(BlockHeading) }

// CodeBlocks returns fenced code blocks in document order.
func (d Document) CodeBlocks() []Block { return d.ofKind(BlockCode) }

// Links returns hyperlink blocks in document order.
func (d Document) Links() []Block { return d.ofKind(BlockLink) }

// Images returns image blocks in document order.
func (d Document) Images() []Block { return d.ofKind(BlockImage) }
