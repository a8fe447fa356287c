package model

// DefaultTitle names outlines saved without a title
const DefaultTitle = "Untitled"

// Document is a whole outline as it is persisted
type Document struct {
	Tree        Tree   `json:"tree"`
	FocusID     string `json:"focusId"`
	FocusOffset int    `json:"focusOffset"`
	Title       string `json:"title"`
}

// NewDocument returns a document holding the initial tree
func NewDocument(title string) *Document {
	return &Document{Tree: InitialTree(), Title: title}
}

// DocumentFromState captures the state as a document with the given title
func DocumentFromState(s *State, title string) *Document {
	return &Document{
		Tree:        s.Tree,
		FocusID:     s.FocusID,
		FocusOffset: s.FocusOffset,
		Title:       title,
	}
}

// FileMeta describes one stored outline
type FileMeta struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayName returns the name of the file, or the default title
func (f FileMeta) DisplayName() string {
	if f.Name == "" {
		return DefaultTitle
	}
	return f.Name
}
