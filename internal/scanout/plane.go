package scanout

import (
	"errors"
	"fmt"

	"github.com/behrlich/go-hdmi/internal/constants"
	"github.com/behrlich/go-hdmi/internal/interfaces"
	"github.com/behrlich/go-hdmi/internal/logging"
)

// State is the plane state snapshot handed in by the commit engine
// for one atomic pass.
type State struct {
	// Active reports whether the plane is attached to an active CRTC.
	Active bool

	// FB is the bound framebuffer, nil when the plane is disabled.
	FB interfaces.Framebuffer

	// Region is the visible rectangle to scan out.
	Region Region
}

// Plane is the single hardware scanout plane. Each update cancels the
// in-flight transfer and submits a freshly built descriptor. The one
// descriptor template is allocated at creation and reused per frame.
type Plane struct {
	dma      interfaces.DMAChannel
	log      *logging.Logger
	template *Descriptor
}

// NewPlane creates the plane bound to its scanout DMA channel.
func NewPlane(dma interfaces.DMAChannel, log *logging.Logger) (*Plane, error) {
	if dma == nil {
		return nil, errors.New("scanout: plane requires a DMA channel")
	}
	if log == nil {
		log = logging.Default()
	}

	return &Plane{
		dma:      dma,
		log:      log,
		template: &Descriptor{},
	}, nil
}

// Update applies one atomic frame update. A plane that is detached or
// has no framebuffer is legitimately disabled and the call is a
// no-op. Otherwise the in-flight transfer is terminated first; if the
// new descriptor cannot be built the update is abandoned with the
// previous transfer left terminated, never partially submitted.
func (p *Plane) Update(st State) error {
	if !st.Active || st.FB == nil {
		return nil
	}

	if cpp := st.FB.BytesPerPixel(); cpp != constants.BytesPerPixel {
		return fmt.Errorf("%w: %d bytes per pixel", ErrBadFormat, cpp)
	}

	// Terminating with nothing in flight must succeed.
	if err := p.dma.Terminate(); err != nil {
		return fmt.Errorf("scanout: terminate before update: %w", err)
	}

	desc, err := Build(st.FB.PhysAddr(), st.FB.Stride(), st.FB.BytesPerPixel(), st.Region)
	if err != nil {
		p.log.Error("failed to prepare dma descriptor", "err", err)
		return err
	}

	*p.template = desc
	if err := p.dma.Submit(p.template); err != nil {
		return fmt.Errorf("scanout: submit: %w", err)
	}
	p.dma.Issue()

	return nil
}
