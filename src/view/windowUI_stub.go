//go:build !ebiten

package view

import (
	"errors"
	"log/slog"

	"lifegrid/src/universe"
)

//ErrNoWindow is returned by the window viewer in builds without the ebiten tag
var ErrNoWindow = errors.New("the window viewer requires building with the 'ebiten' tag")

//WindowUI is a placeholder for headless builds
type WindowUI struct{}

//NewWindowUI returns the placeholder in the headless build
func NewWindowUI(int, *slog.Logger) *WindowUI { return &WindowUI{} }

func (w *WindowUI) Register(universe.Universe) {}

func (w *WindowUI) Refresh(universe.Snapshot) {}

//Start always reports that the ebiten build tag is missing
func (w *WindowUI) Start() error { return ErrNoWindow }
