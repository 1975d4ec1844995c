package reveal

// State is the cursor into the content of one reveal session.
// The cursor only moves forward and never passes the end.
type State struct {
	text   []rune
	cursor int
}

// NewState starts a cursor at the beginning of text
func NewState(text string) *State {
	return &State{text: []rune(text)}
}

// Cursor returns how many characters have been revealed
func (s *State) Cursor() int {
	return s.cursor
}

// Len returns the total number of characters
func (s *State) Len() int {
	return len(s.text)
}

// Remaining returns how many characters are still hidden
func (s *State) Remaining() int {
	return len(s.text) - s.cursor
}

// Done reports whether everything has been revealed
func (s *State) Done() bool {
	return s.cursor >= len(s.text)
}

// Next advances by up to n characters and returns them
func (s *State) Next(n int) string {
	if n < 1 {
		return ""
	}
	end := s.cursor + n
	if end > len(s.text) {
		end = len(s.text)
	}
	chunk := string(s.text[s.cursor:end])
	s.cursor = end
	return chunk
}
