package browser

// Stack is the per-session back/forward navigation stack. It is separate
// from the trail: the trail is a deduplicated recency list, the stack is
// the linear path the user walked.
type Stack struct {
	urls []string
	pos  int
	max  int
}

// NewStack creates an empty navigation stack holding at most max entries
// (0 means unbounded).
func NewStack(max int) *Stack {
	return &Stack{pos: -1, max: max}
}

// Push records a new URL, truncating any forward entries.
func (s *Stack) Push(url string) {
	if s.pos < len(s.urls)-1 {
		s.urls = s.urls[:s.pos+1]
	}
	s.urls = append(s.urls, url)
	if s.max > 0 && len(s.urls) > s.max {
		s.urls = s.urls[len(s.urls)-s.max:]
	}
	s.pos = len(s.urls) - 1
}

// Back moves one step back. Returns the URL and true if possible.
func (s *Stack) Back() (string, bool) {
	if s.pos <= 0 {
		return "", false
	}
	s.pos--
	return s.urls[s.pos], true
}

// Forward moves one step forward. Returns the URL and true if possible.
func (s *Stack) Forward() (string, bool) {
	if s.pos >= len(s.urls)-1 {
		return "", false
	}
	s.pos++
	return s.urls[s.pos], true
}

// Current returns the current URL, or "" if the stack is empty.
func (s *Stack) Current() string {
	if s.pos < 0 || s.pos >= len(s.urls) {
		return ""
	}
	return s.urls[s.pos]
}

// CanGoBack reports whether there is a previous entry.
func (s *Stack) CanGoBack() bool { return s.pos > 0 }

// CanGoForward reports whether there is a next entry.
func (s *Stack) CanGoForward() bool { return s.pos < len(s.urls)-1 }
