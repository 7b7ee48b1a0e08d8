package vkframe

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
)

// FrameState is where the scheduler is within a frame
type FrameState int

const (
	StateIdle FrameState = iota
	StateAcquiring
	StateRecording
	StateSubmitted
	StatePresenting
)

func (s FrameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateRecording:
		return "recording"
	case StateSubmitted:
		return "submitted"
	case StatePresenting:
		return "presenting"
	}
	return "unknown"
}

// Submission is one frame's worth of graphics work. The work waits on Wait at
// the color attachment output stage, then signals Signal and Fence.
type Submission struct {
	Commands CommandRecorder
	Wait     Semaphore
	Signal   Semaphore
	Fence    Fence
}

// FrameQueue is the swapchain and queue side of the frame loop
type FrameQueue interface {
	// AcquireNextImage returns the index of the next chain image and
	// signals signal once the image can be rendered to
	AcquireNextImage(timeout time.Duration, signal Semaphore) (int, error)
	// Record fills a freshly reset recorder with the commands that draw
	// into chain image imageIndex
	Record(cmd CommandRecorder, imageIndex int) error
	Submit(sub Submission) error
	// Present queues imageIndex for presentation once wait is signaled
	Present(imageIndex int, wait Semaphore) error
}

// ChainRebuilder recreates the swapchain and everything sized by it
type ChainRebuilder interface {
	// RebuildChain returns the image count of the new chain
	RebuildChain() (int, error)
}

// SchedulerOptions tune a FrameScheduler
type SchedulerOptions struct {
	// AcquireTimeout bounds the wait for a chain image, NoTimeout by default
	AcquireTimeout time.Duration
	// Rebuilder recovers from out-of-date chains. Without one they are fatal,
	// while suboptimal presents and Invalidate requests are ignored.
	Rebuilder ChainRebuilder
	// OnTransition, when set, is called on every state change
	OnTransition func(frame uint64, slot int, state FrameState)
	Logger       *slog.Logger
}

const noOwner = -1

// FrameScheduler advances frames through acquire, record, submit and present,
// reusing the pool's slots round robin. It is driven by a single goroutine.
type FrameScheduler struct {
	pool    *FramePool
	queue   FrameQueue
	opts    SchedulerOptions
	log     *slog.Logger
	frame   uint64
	state   FrameState
	owners  []int
	stale   bool
	err     error
	rebuilt int
}

// NewFrameScheduler creates a scheduler for a chain of imageCount images
func NewFrameScheduler(pool *FramePool, queue FrameQueue, imageCount int, opts SchedulerOptions) (*FrameScheduler, error) {
	if pool == nil || pool.Len() == 0 {
		return nil, errors.New("frame scheduler needs a frame pool")
	}
	if opts.AcquireTimeout <= 0 {
		opts.AcquireTimeout = NoTimeout
	}
	s := &FrameScheduler{
		pool:  pool,
		queue: queue,
		opts:  opts,
		log:   opts.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if err := s.resetImages(imageCount); err != nil {
		return nil, err
	}
	return s, nil
}

// Frame is the number of frames submitted so far
func (s *FrameScheduler) Frame() uint64 {
	return s.frame
}

// CurrentSlot is the slot the next frame will use
func (s *FrameScheduler) CurrentSlot() int {
	return int(s.frame % uint64(s.pool.Len()))
}

// State is the scheduler's position within the current frame
func (s *FrameScheduler) State() FrameState {
	return s.state
}

// ImageCount is the number of chain images being tracked
func (s *FrameScheduler) ImageCount() int {
	return len(s.owners)
}

// ImageOwner returns the slot whose fence last guarded work on image
func (s *FrameScheduler) ImageOwner(image int) (slot int, ok bool) {
	if image < 0 || image >= len(s.owners) || s.owners[image] == noOwner {
		return noOwner, false
	}
	return s.owners[image], true
}

// Rebuilds is the number of chain rebuilds performed
func (s *FrameScheduler) Rebuilds() int {
	return s.rebuilt
}

// Err returns the error that stopped the scheduler, if any
func (s *FrameScheduler) Err() error {
	return s.err
}

// Invalidate asks for a chain rebuild before the next image is acquired
func (s *FrameScheduler) Invalidate() {
	s.stale = true
}

func (s *FrameScheduler) resetImages(n int) error {
	if n <= 0 {
		return errors.Newf("chain has %d images", n)
	}
	s.owners = make([]int, n)
	for i := range s.owners {
		s.owners[i] = noOwner
	}
	return nil
}

// AdvanceFrame runs one acquire, record, submit, present cycle. Any error
// other than a recoverable out-of-date chain stops the scheduler: this and
// every later call return it. A suboptimal present rebuilds the chain when a
// rebuilder is set and is otherwise ignored.
func (s *FrameScheduler) AdvanceFrame() error {
	if s.err != nil {
		return s.err
	}
	if err := s.advance(); err != nil {
		s.state = StateIdle
		s.err = errors.Mark(errors.Wrapf(err, "frame %d", s.frame), ErrSchedulerStopped)
		s.log.Error("frame scheduler stopped", "frame", s.frame, "err", err.Error())
		return s.err
	}
	return nil
}

func (s *FrameScheduler) advance() error {
	slot := s.pool.Slot(s.frame)

	s.setState(slot, StateAcquiring)
	if err := slot.InFlight.Wait(NoTimeout); err != nil {
		return errors.Wrapf(err, "wait slot %d", slot.Index)
	}

	if s.stale {
		if s.opts.Rebuilder == nil {
			s.log.Warn("chain rebuild requested without a rebuilder", "frame", s.frame)
			s.stale = false
		} else if err := s.rebuild(); err != nil {
			return err
		}
	}

	image, err := s.queue.AcquireNextImage(s.opts.AcquireTimeout, slot.ImageAcquired)
	if err != nil {
		if IsChainOutOfDate(err) && s.opts.Rebuilder != nil {
			s.setState(slot, StateIdle)
			return s.rebuild()
		}
		return errors.Wrap(err, "acquire image")
	}
	if image < 0 || image >= len(s.owners) {
		return errors.Wrapf(ErrImageIndexOutOfRange, "image %d of %d", image, len(s.owners))
	}

	if owner := s.owners[image]; owner != noOwner && owner != slot.Index {
		if err := s.pool.At(owner).InFlight.Wait(NoTimeout); err != nil {
			return errors.Wrapf(err, "wait image %d held by slot %d", image, owner)
		}
	}
	s.owners[image] = slot.Index

	s.setState(slot, StateRecording)
	if err := slot.Commands.Reset(); err != nil {
		return errors.Wrapf(err, "reset slot %d commands", slot.Index)
	}
	if err := s.queue.Record(slot.Commands, image); err != nil {
		return errors.Wrapf(err, "record image %d", image)
	}

	if err := slot.InFlight.Reset(); err != nil {
		return errors.Wrapf(err, "reset slot %d fence", slot.Index)
	}
	if err := s.queue.Submit(Submission{
		Commands: slot.Commands,
		Wait:     slot.ImageAcquired,
		Signal:   slot.RenderFinished,
		Fence:    slot.InFlight,
	}); err != nil {
		return errors.Wrap(err, "submit")
	}
	s.setState(slot, StateSubmitted)

	s.setState(slot, StatePresenting)
	presentErr := s.queue.Present(image, slot.RenderFinished)
	s.setState(slot, StateIdle)
	s.frame++

	if presentErr != nil {
		if IsChainSuboptimal(presentErr) {
			if s.opts.Rebuilder == nil {
				return nil
			}
			return s.rebuild()
		}
		if IsChainOutOfDate(presentErr) && s.opts.Rebuilder != nil {
			return s.rebuild()
		}
		return errors.Wrap(presentErr, "present")
	}
	return nil
}

func (s *FrameScheduler) setState(slot *FrameSlot, state FrameState) {
	s.state = state
	if s.opts.OnTransition != nil {
		s.opts.OnTransition(s.frame, slot.Index, state)
	}
}

func (s *FrameScheduler) rebuild() error {
	if s.opts.Rebuilder == nil {
		return errors.Wrap(ErrChainOutOfDate, "no chain rebuilder")
	}
	n, err := s.opts.Rebuilder.RebuildChain()
	if err != nil {
		return errors.Wrap(err, "rebuild chain")
	}
	if err := s.resetImages(n); err != nil {
		return err
	}
	s.stale = false
	s.rebuilt++
	s.log.Debug("rebuilt chain", "images", n, "frame", s.frame)
	return nil
}
