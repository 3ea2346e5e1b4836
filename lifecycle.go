package heictopng

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// HandleRegistry issues revocable display handles over converted output.
// A long-lived session converts batch after batch; without explicit
// revocation the outputs of every previous batch would pile up, so the
// registry keeps ownership of the published bytes and invalidates them on
// Revoke or RevokeAll.
//
// A registry with previewWidth > 0 also renders a Lanczos3 thumbnail per
// published file for preview surfaces; the published PNG itself is never
// modified.
type HandleRegistry struct {
	mu           sync.Mutex
	entries      map[string]*handleEntry
	previewWidth int
}

type handleEntry struct {
	name    string
	data    []byte
	preview []byte
}

// DisplayHandle is an opaque, revocable reference to one published output.
type DisplayHandle struct {
	id   string
	name string
	reg  *HandleRegistry
}

// NewHandleRegistry builds a registry. previewWidth sets the thumbnail
// width in pixels; 0 disables previews.
func NewHandleRegistry(previewWidth int) *HandleRegistry {
	return &HandleRegistry{
		entries:      make(map[string]*handleEntry),
		previewWidth: previewWidth,
	}
}

// Publish registers PNG output under a fresh handle.
func (r *HandleRegistry) Publish(name string, data []byte) (*DisplayHandle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("refusing to publish empty output for %q", name)
	}

	entry := &handleEntry{name: name, data: data}
	if r.previewWidth > 0 {
		if preview, err := renderPreview(data, r.previewWidth); err == nil {
			entry.preview = preview
		}
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.entries[id] = entry
	r.mu.Unlock()

	return &DisplayHandle{id: id, name: name, reg: r}, nil
}

// PublishBatch publishes every successful outcome of a batch, returning
// handles in outcome order. Failed outcomes are skipped.
func (r *HandleRegistry) PublishBatch(res BatchResult) ([]*DisplayHandle, error) {
	var handles []*DisplayHandle
	for _, o := range res.Outcomes {
		if !o.OK() {
			continue
		}
		h, err := r.Publish(o.OutputName, o.PNG)
		if err != nil {
			return handles, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Revoke releases one handle. Subsequent access through it fails.
func (r *HandleRegistry) Revoke(h *DisplayHandle) {
	if h == nil {
		return
	}
	r.mu.Lock()
	delete(r.entries, h.id)
	r.mu.Unlock()
}

// RevokeAll releases every handle, e.g. on "clear all" or when replacing
// the batch.
func (r *HandleRegistry) RevokeAll() {
	r.mu.Lock()
	r.entries = make(map[string]*handleEntry)
	r.mu.Unlock()
}

// Len reports how many handles are currently live.
func (r *HandleRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *HandleRegistry) lookup(id string) (*handleEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	return entry, ok
}

// ID returns the handle's unique identifier.
func (h *DisplayHandle) ID() string { return h.id }

// Name returns the output file name the handle was published under.
func (h *DisplayHandle) Name() string { return h.name }

// Bytes returns the published PNG, or an error once revoked. The returned
// slice is a copy; the registry keeps sole ownership of the published
// bytes, which several handles and readers may be serving at once.
func (h *DisplayHandle) Bytes() ([]byte, error) {
	entry, ok := h.reg.lookup(h.id)
	if !ok {
		return nil, fmt.Errorf("handle for %q has been revoked", h.name)
	}
	return bytes.Clone(entry.data), nil
}

// Reader returns a reader over the published PNG, or an error once
// revoked.
func (h *DisplayHandle) Reader() (io.Reader, error) {
	data, err := h.Bytes()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// Preview returns a copy of the thumbnail rendered at publish time; nil
// when the registry has previews disabled. Fails once revoked.
func (h *DisplayHandle) Preview() ([]byte, error) {
	entry, ok := h.reg.lookup(h.id)
	if !ok {
		return nil, fmt.Errorf("handle for %q has been revoked", h.name)
	}
	return bytes.Clone(entry.preview), nil
}

// renderPreview scales the published PNG down to width pixels using
// Lanczos3. Output narrower than the target is reused as its own preview.
func renderPreview(data []byte, width int) ([]byte, error) {
	m, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode published PNG: %v", err)
	}
	if m.Bounds().Dx() <= width {
		return data, nil
	}
	thumb := resize.Resize(uint(width), 0, m, resize.Lanczos3)
	return encodePNG(thumb, png.DefaultCompression)
}
