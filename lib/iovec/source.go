package iovec

// Source is a consumable list of input segments. Extraction from the front and
// from the back may be mixed freely; the two ends never overlap.
type Source struct {
	segs [][]byte
	size int
}

// NewSource creates a source over segs. Empty segments are dropped, the
// remaining slices are referenced, not copied.
func NewSource(segs ...[]byte) *Source {
	s := &Source{segs: make([][]byte, 0, len(segs))}
	for _, seg := range segs {
		if len(seg) == 0 {
			continue
		}
		s.segs = append(s.segs, seg)
		s.size += len(seg)
	}
	return s
}

// Len returns the number of bytes left in the source
func (s *Source) Len() int {
	return s.size
}

// Count returns the number of non-empty segments left in the source
func (s *Source) Count() int {
	return len(s.segs)
}

// ExtractFrontContiguous removes n bytes from the front of the source. The
// bytes must all lie in the current front segment; otherwise nothing is
// removed and false is returned.
func (s *Source) ExtractFrontContiguous(n int) ([]byte, bool) {
	if n < 0 {
		return nil, false
	}
	if n == 0 {
		return []byte{}, true
	}
	if len(s.segs) == 0 || len(s.segs[0]) < n {
		return nil, false
	}

	front := s.segs[0]
	out := front[:n:n]
	s.consumeFront(n)
	return out, true
}

// ExtractBack removes n bytes from the back of the source. The bytes must all
// lie in the current back segment; otherwise nothing is removed and false is
// returned.
func (s *Source) ExtractBack(n int) ([]byte, bool) {
	if n < 0 {
		return nil, false
	}
	if n == 0 {
		return []byte{}, true
	}
	last := len(s.segs) - 1
	if last < 0 || len(s.segs[last]) < n {
		return nil, false
	}

	back := s.segs[last]
	cut := len(back) - n
	out := back[cut:len(back):len(back)]

	if cut == 0 {
		s.segs[last] = nil
		s.segs = s.segs[:last]
	} else {
		s.segs[last] = back[:cut:cut]
	}
	s.size -= n
	return out, true
}

// ExtractFront removes up to n bytes from the front of the source, crossing
// segment boundaries as needed. It returns the extracted segments and the
// number of bytes they hold, which is less than n only if the source ran dry.
func (s *Source) ExtractFront(n int) ([][]byte, int) {
	if n <= 0 {
		return nil, 0
	}

	var out [][]byte
	taken := 0
	for taken < n && len(s.segs) > 0 {
		front := s.segs[0]
		want := min(n-taken, len(front))
		out = append(out, front[:want:want])
		s.consumeFront(want)
		taken += want
	}
	return out, taken
}

// consumeFront drops n bytes from the front segment, n must not exceed its length
func (s *Source) consumeFront(n int) {
	front := s.segs[0]
	if n == len(front) {
		s.segs[0] = nil
		s.segs = s.segs[1:]
	} else {
		s.segs[0] = front[n:]
	}
	s.size -= n
}
