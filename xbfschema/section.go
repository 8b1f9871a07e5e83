package xbfschema

// NodeStart returns the absolute file position of section's node bytes.
func (s NodeSection) NodeStart(base int) int {
	return base + int(s.NodeOffset)
}

// NodeEnd returns the absolute file position marking the end of section's
// nodes (start of its positional/line-column metadata).
func (s NodeSection) NodeEnd(base int) int {
	return base + int(s.PositionalOffset)
}
