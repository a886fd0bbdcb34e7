package rest

// BufferedResults returns the number of notifications kept for later awaits.
func (l *Listener) BufferedResults() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.results)
}
