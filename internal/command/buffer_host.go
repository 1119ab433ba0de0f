package command

import "github.com/matkrin/prettyd/internal/region"

// BufferHost is an in-memory Host over a plain string.
type BufferHost struct {
	text      string
	selection region.Region
	edits     int
}

func NewBufferHost(text string, selection region.Region) *BufferHost {
	return &BufferHost{text: text, selection: region.Normalize(selection)}
}

func (h *BufferHost) Selection() region.Region {
	return h.selection
}

func (h *BufferHost) Len() int {
	return len(h.text)
}

func (h *BufferHost) Text(r region.Region) string {
	return region.Text(h.text, r)
}

func (h *BufferHost) ApplyEdit(r region.Region, text string) error {
	r = region.Clamp(r, len(h.text))
	h.text = region.Replace(h.text, r, text)
	h.selection = region.Region{Start: r.Start, End: r.Start + len(text)}
	h.edits++
	return nil
}

func (h *BufferHost) String() string {
	return h.text
}

// Edits returns how many edits were applied.
func (h *BufferHost) Edits() int {
	return h.edits
}
