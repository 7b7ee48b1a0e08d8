package vkframe

import (
	"time"

	"github.com/cockroachdb/errors"
)

// NoTimeout waits forever
const NoTimeout = time.Duration(1<<63 - 1)

// Fence is a GPU to CPU synchronization primitive
type Fence interface {
	Wait(timeout time.Duration) error
	Reset() error
	Destroy()
}

// Semaphore is a GPU to GPU synchronization primitive
type Semaphore interface {
	Destroy()
}

// CommandRecorder is a reusable command buffer
type CommandRecorder interface {
	Reset() error
	Destroy()
}

// SlotAllocator creates the objects that make up a frame slot
type SlotAllocator interface {
	AllocateCommandRecorder() (CommandRecorder, error)
	CreateSemaphore() (Semaphore, error)
	CreateFence(signaled bool) (Fence, error)
}

// FrameSlot is one of the reusable bundles of per-frame resources.
// InFlight must be signaled before Commands is re-recorded or either
// semaphore is reused.
type FrameSlot struct {
	Index          int
	Commands       CommandRecorder
	ImageAcquired  Semaphore
	RenderFinished Semaphore
	InFlight       Fence
}

func (s *FrameSlot) destroy() {
	if s.InFlight != nil {
		s.InFlight.Destroy()
	}
	if s.RenderFinished != nil {
		s.RenderFinished.Destroy()
	}
	if s.ImageAcquired != nil {
		s.ImageAcquired.Destroy()
	}
	if s.Commands != nil {
		s.Commands.Destroy()
	}
}

// FramePool owns a fixed number of frame slots
type FramePool struct {
	slots []*FrameSlot
}

// NewFramePool allocates n slots. Every fence starts signaled so the first
// wait on each slot returns immediately.
func NewFramePool(n int, alloc SlotAllocator) (*FramePool, error) {
	if n < 1 {
		return nil, errors.Newf("frame pool needs at least one slot, got %d", n)
	}
	p := &FramePool{slots: make([]*FrameSlot, 0, n)}
	for i := 0; i < n; i++ {
		slot, err := newFrameSlot(i, alloc)
		if err != nil {
			p.Destroy()
			return nil, errors.Wrapf(err, "frame slot %d", i)
		}
		p.slots = append(p.slots, slot)
	}
	return p, nil
}

func newFrameSlot(index int, alloc SlotAllocator) (*FrameSlot, error) {
	slot := &FrameSlot{Index: index}
	var err error
	if slot.Commands, err = alloc.AllocateCommandRecorder(); err != nil {
		slot.destroy()
		return nil, errors.Wrap(err, "allocate command buffer")
	}
	if slot.ImageAcquired, err = alloc.CreateSemaphore(); err != nil {
		slot.destroy()
		return nil, errors.Wrap(err, "create image acquired semaphore")
	}
	if slot.RenderFinished, err = alloc.CreateSemaphore(); err != nil {
		slot.destroy()
		return nil, errors.Wrap(err, "create render finished semaphore")
	}
	if slot.InFlight, err = alloc.CreateFence(true); err != nil {
		slot.destroy()
		return nil, errors.Wrap(err, "create in flight fence")
	}
	return slot, nil
}

// Len is the number of slots, the maximum number of frames in flight
func (p *FramePool) Len() int {
	return len(p.slots)
}

// At returns slot i
func (p *FramePool) At(i int) *FrameSlot {
	return p.slots[i]
}

// Slot returns the slot used by frame number frame
func (p *FramePool) Slot(frame uint64) *FrameSlot {
	return p.slots[frame%uint64(len(p.slots))]
}

// Destroy releases every slot, last first. The GPU must be idle.
func (p *FramePool) Destroy() {
	for i := len(p.slots) - 1; i >= 0; i-- {
		p.slots[i].destroy()
	}
	p.slots = nil
}
