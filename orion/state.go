package orion

import (
	"github.com/oliverbestmann/pixl/glimpse"
)

var currentWindow global[glimpse.Window]

type global[T any] struct {
	value    T
	hasValue bool
}

func (g *global[T]) set(value T) *global[T] {
	if g.hasValue {
		panic("value already set")
	}

	g.value = value
	g.hasValue = true
	return g
}

func (g *global[T]) reset() {
	var tZero T
	g.value = tZero
	g.hasValue = false
}

func (g *global[T]) Get() T {
	if !g.hasValue {
		panic("must only be called within RunApp")
	}

	return g.value
}

// Exit closes the window opened by RunApp after the current frame.
func Exit() {
	currentWindow.Get().Close()
}
