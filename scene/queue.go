package scene

import (
	"cmp"

	"github.com/oliverbestmann/pixl/array"
	"golang.org/x/exp/slices"
)

// Entry references one instance of an image.
type Entry struct {
	Image *Image
	Index int
}

// Instance resolves the entry. The pointer is only valid until the image
// gets a new instance.
func (e Entry) Instance() *Instance {
	return e.Image.Instance(e.Index)
}

func (e Entry) depth() int32 {
	return e.Image.instances.Ref(e.Index).Z
}

// Queue holds one entry per instance of every image, drawn in order.
type Queue struct {
	entries *array.Array[Entry]
	dirty   bool
}

func newQueue() *Queue {
	return &Queue{entries: array.New[Entry]()}
}

func (q *Queue) Len() int {
	return q.entries.Len()
}

func (q *Queue) Dirty() bool {
	return q.dirty
}

// MarkDirty forces the next Sort to reorder the queue.
func (q *Queue) MarkDirty() {
	q.dirty = true
}

// Entries returns the entries in draw order, valid until the queue changes.
func (q *Queue) Entries() []Entry {
	return q.entries.Items()
}

// Sort orders the entries by ascending depth if anything changed since the
// last sort. Entries of equal depth keep their insertion order.
func (q *Queue) Sort() {
	if !q.dirty {
		return
	}

	slices.SortStableFunc(q.entries.Items(), func(a, b Entry) int {
		return cmp.Compare(a.depth(), b.depth())
	})

	q.dirty = false
}

func (q *Queue) push(img *Image, index int) error {
	if err := q.entries.Push(Entry{Image: img, Index: index}); err != nil {
		return err
	}

	q.dirty = true
	return nil
}

// remove drops the entry of the given instance and moves the entries of the
// image's later instances down by one, following the instance array.
func (q *Queue) remove(img *Image, index int) {
	q.entries.DeleteFunc(func(e Entry) bool {
		return e.Image == img && e.Index == index
	})

	entries := q.entries.Items()
	for idx := range entries {
		if entries[idx].Image == img && entries[idx].Index > index {
			entries[idx].Index--
		}
	}

	q.dirty = true
}

// Purge removes every entry that references img.
func (q *Queue) Purge(img *Image) int {
	removed := q.entries.DeleteFunc(func(e Entry) bool {
		return e.Image == img
	})

	if removed > 0 {
		q.dirty = true
	}

	return removed
}
