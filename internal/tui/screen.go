// Package tui is the terminal presentation adapter, drawn with tcell.
package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Surface is the part of a terminal the app draws on and reads input from.
type Surface interface {
	Clear()
	Show()
	Sync()
	Size() (width, height int)
	SetContent(x, y int, r rune, style tcell.Style)
	PollEvent() tcell.Event
	Close()
}

// Screen wraps tcell.Screen with a simplified interface.
type Screen struct {
	screen tcell.Screen
	once   sync.Once
}

// NewScreen creates and initializes a new terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(styleText)
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close finalizes the screen and restores terminal state. It is safe to call
// more than once.
func (s *Screen) Close() {
	s.once.Do(s.screen.Fini)
}

// PollEvent waits for and returns the next terminal event. It returns nil
// once the screen is closed.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) Show() {
	s.screen.Show()
}

func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync forces a complete redraw, used after a resize.
func (s *Screen) Sync() {
	s.screen.Sync()
}
