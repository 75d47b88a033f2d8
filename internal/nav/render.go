package nav

// Render projects the visible frame into rows and the selected row index.
// An empty stack renders nothing.
func (s *Stack) Render() (rows []Row, selected int, ok bool) {
	top, found := s.Top()
	if !found {
		return nil, 0, false
	}
	return RenderFrame(top)
}

// RenderFrame projects one frame.
func RenderFrame(f *Frame) (rows []Row, selected int, ok bool) {
	rows = make([]Row, 0, f.Len())
	for _, it := range f.Items() {
		rows = append(rows, it.Row())
	}
	selected, ok = f.Cursor()
	return rows, selected, ok
}
