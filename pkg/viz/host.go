package viz

import (
	"slices"

	"github.com/matzehuels/selfmap/pkg/render"
	"github.com/matzehuels/selfmap/pkg/render/headless"
)

// Role names the chart a surface is requested for.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

// Variant returns the render variant used for role.
func (r Role) Variant() render.Variant {
	if r == RoleSecondary {
		return render.Secondary
	}
	return render.Primary
}

// Host supplies and takes back drawing surfaces.
type Host interface {
	// Attach returns a surface for role sized dims, or nil if none is
	// available yet.
	Attach(role Role, dims render.Dimensions) render.Surface

	// Detach removes a surface obtained from Attach.
	Detach(s render.Surface)
}

type closer interface{ Close() }

// FuncHost adapts a surface constructor to [Host]. Detach calls Close on
// surfaces that have one.
type FuncHost struct {
	New  func(role Role, dims render.Dimensions) render.Surface
	live []render.Surface
}

// Attach creates a surface with h.New.
func (h *FuncHost) Attach(role Role, dims render.Dimensions) render.Surface {
	if h.New == nil {
		return nil
	}
	s := h.New(role, dims)
	if s != nil {
		h.live = append(h.live, s)
	}
	return s
}

// Detach closes s and forgets it.
func (h *FuncHost) Detach(s render.Surface) {
	i := slices.Index(h.live, s)
	if i < 0 {
		return
	}
	h.live = slices.Delete(h.live, i, i+1)
	if c, ok := s.(closer); ok {
		c.Close()
	}
}

// Live returns the surfaces currently attached.
func (h *FuncHost) Live() []render.Surface { return slices.Clone(h.live) }

// NewHeadlessHost returns a host that hands out [headless.Surface] values.
func NewHeadlessHost() *FuncHost {
	return &FuncHost{New: func(Role, render.Dimensions) render.Surface { return headless.New() }}
}
