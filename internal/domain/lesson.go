package domain

// Frontmatter is the optional YAML header of a lesson file. Everything in it
// has a sensible default: a lesson without frontmatter is still a lesson.
type Frontmatter struct {
	Title   string
	Minutes int
	Checks  []DataCheck
}

// DataCheck is a frontmatter-declared assertion against a JSON data file,
// keeping lesson prose honest about the dataset it describes.
type DataCheck struct {
	Name string
	File string // relative to the workspace root, e.g. "data/northwind/categories.json"
	Path string // JSONPath expression, e.g. "$[0].Name"

	// Exists asserts the path yields a non-empty value.
	Exists bool
	// Equals, when set, asserts the stringified value matches.
	Equals *string
}

// Lesson is one loaded lesson document.
type Lesson struct {
	Ref   LessonRef
	Front Frontmatter

	// Raw is the file as read; Body is Raw with the frontmatter stripped.
	Raw  []byte
	Body []byte

	Doc Document
}

// DisplayTitle prefers the frontmatter title, then the first H1, then the
// manifest title.
func (l Lesson) DisplayTitle() string {
	if l.Front.Title != "" {
		return l.Front.Title
	}
	for _, h := range l.Doc.Headings() {
		if h.Level == 1 {
			return h.Text
		}
	}
	return l.Ref.Title
}
