// Package render prints an optimised Path as a human-readable report.
// There is no live gameplay loop to drive (no chart parser or player sits
// behind this module), so the Renderer interface is the batch-reporting
// analogue of a frame renderer: one shot, not a loop.
package render

import (
	"starpower/internal/optimiser"
	"starpower/internal/song"
)

// Renderer renders the result of one optimisation run.
type Renderer interface {
	Init() error
	Deinit() error

	// RenderPath writes a full report of path against proc.
	RenderPath(proc *song.Processed, path optimiser.Path) error
}
