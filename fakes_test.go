package vkframe

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	errDeadlock  = errors.New("fake gpu: wait on a fence nothing will signal")
	errGPUInUse  = errors.New("fake gpu: resource still in use by a pending submission")
	errSemaphore = errors.New("fake gpu: binary semaphore misuse")
	errInjected  = errors.New("fake gpu: injected failure")
)

// fakeGPU records every operation and models fences, binary semaphores and
// command buffers strictly enough to catch ordering mistakes. Submitted work
// completes when something waits on its fence, or when the device idles.
type fakeGPU struct {
	events     []string
	fences     []*fakeFence
	semaphores []*fakeSemaphore
	recorders  []*fakeRecorder
	created    int
	// failAfter makes the allocator fail once this many objects exist, 0 disables
	failAfter int
	// unsignaledFences makes CreateFence ignore the signaled flag
	unsignaledFences bool
}

func (g *fakeGPU) logf(format string, args ...interface{}) {
	g.events = append(g.events, fmt.Sprintf(format, args...))
}

func (g *fakeGPU) idle() {
	for _, f := range g.fences {
		if f.pending {
			f.pending = false
			f.signaled = true
		}
	}
	g.logf("idle")
}

func (g *fakeGPU) live() int {
	n := 0
	for _, f := range g.fences {
		if !f.destroyed {
			n++
		}
	}
	for _, s := range g.semaphores {
		if !s.destroyed {
			n++
		}
	}
	for _, r := range g.recorders {
		if !r.destroyed {
			n++
		}
	}
	return n
}

func (g *fakeGPU) allocate() error {
	if g.failAfter > 0 && g.created >= g.failAfter {
		return errInjected
	}
	g.created++
	return nil
}

func (g *fakeGPU) AllocateCommandRecorder() (CommandRecorder, error) {
	if err := g.allocate(); err != nil {
		return nil, err
	}
	r := &fakeRecorder{gpu: g, name: fmt.Sprintf("cmd%d", g.created)}
	g.recorders = append(g.recorders, r)
	return r, nil
}

func (g *fakeGPU) CreateSemaphore() (Semaphore, error) {
	if err := g.allocate(); err != nil {
		return nil, err
	}
	sem := &fakeSemaphore{gpu: g, name: fmt.Sprintf("sem%d", g.created)}
	g.semaphores = append(g.semaphores, sem)
	return sem, nil
}

func (g *fakeGPU) CreateFence(signaled bool) (Fence, error) {
	if err := g.allocate(); err != nil {
		return nil, err
	}
	f := &fakeFence{gpu: g, name: fmt.Sprintf("fence%d", len(g.fences)), signaled: signaled && !g.unsignaledFences}
	g.fences = append(g.fences, f)
	return f, nil
}

type fakeFence struct {
	gpu       *fakeGPU
	name      string
	signaled  bool
	pending   bool
	destroyed bool
}

func (f *fakeFence) Wait(timeout time.Duration) error {
	f.gpu.logf("wait %s", f.name)
	if f.pending {
		f.pending = false
		f.signaled = true
	}
	if !f.signaled {
		return errDeadlock
	}
	return nil
}

func (f *fakeFence) Reset() error {
	f.gpu.logf("reset %s", f.name)
	if f.pending {
		return errors.Wrap(errGPUInUse, f.name)
	}
	f.signaled = false
	return nil
}

func (f *fakeFence) Destroy() {
	f.destroyed = true
}

type fakeSemaphore struct {
	gpu       *fakeGPU
	name      string
	signaled  bool
	destroyed bool
}

func (s *fakeSemaphore) signal() error {
	if s.signaled {
		return errors.Wrapf(errSemaphore, "%s signaled twice", s.name)
	}
	s.signaled = true
	return nil
}

func (s *fakeSemaphore) wait() error {
	if !s.signaled {
		return errors.Wrapf(errSemaphore, "%s waited before signal", s.name)
	}
	s.signaled = false
	return nil
}

func (s *fakeSemaphore) Destroy() {
	s.destroyed = true
}

type fakeRecorder struct {
	gpu       *fakeGPU
	name      string
	clean     bool
	fence     *fakeFence
	destroyed bool
}

func (r *fakeRecorder) Reset() error {
	r.gpu.logf("reset %s", r.name)
	if r.fence != nil && r.fence.pending {
		return errors.Wrap(errGPUInUse, r.name)
	}
	r.clean = true
	return nil
}

func (r *fakeRecorder) Destroy() {
	r.destroyed = true
}

// fakeQueue hands out chain images in sequence and checks each frame's
// resources against the fake GPU's state.
type fakeQueue struct {
	gpu        *fakeGPU
	imageCount int
	next       int
	// imageFence is the fence of the last submission that rendered to an image
	imageFence map[int]*fakeFence
	acquired   []int
	// acquireErrs and presentErrs are returned, in order, before normal operation
	acquireErrs []error
	presentErrs []error
	badIndex    bool
}

func newFakeQueue(gpu *fakeGPU, imageCount int) *fakeQueue {
	return &fakeQueue{gpu: gpu, imageCount: imageCount, imageFence: make(map[int]*fakeFence)}
}

func (q *fakeQueue) AcquireNextImage(timeout time.Duration, signal Semaphore) (int, error) {
	if len(q.acquireErrs) > 0 {
		err := q.acquireErrs[0]
		q.acquireErrs = q.acquireErrs[1:]
		q.gpu.logf("acquire failed")
		return 0, err
	}
	if q.badIndex {
		return q.imageCount, nil
	}
	if err := signal.(*fakeSemaphore).signal(); err != nil {
		return 0, err
	}
	image := q.next
	q.next = (q.next + 1) % q.imageCount
	q.acquired = append(q.acquired, image)
	q.gpu.logf("acquire %d", image)
	return image, nil
}

func (q *fakeQueue) Record(cmd CommandRecorder, imageIndex int) error {
	r := cmd.(*fakeRecorder)
	q.gpu.logf("record %s image %d", r.name, imageIndex)
	if !r.clean {
		return errors.Newf("%s recorded without reset", r.name)
	}
	if f := q.imageFence[imageIndex]; f != nil && f.pending {
		return errors.Wrapf(errGPUInUse, "image %d", imageIndex)
	}
	r.clean = false
	return nil
}

func (q *fakeQueue) Submit(sub Submission) error {
	r := sub.Commands.(*fakeRecorder)
	f := sub.Fence.(*fakeFence)
	q.gpu.logf("submit %s %s", r.name, f.name)
	if f.signaled || f.pending {
		return errors.Newf("submit with unreset fence %s", f.name)
	}
	if err := sub.Wait.(*fakeSemaphore).wait(); err != nil {
		return err
	}
	if err := sub.Signal.(*fakeSemaphore).signal(); err != nil {
		return err
	}
	f.pending = true
	r.fence = f
	q.imageFence[q.acquired[len(q.acquired)-1]] = f
	return nil
}

func (q *fakeQueue) Present(imageIndex int, wait Semaphore) error {
	q.gpu.logf("present %d", imageIndex)
	if err := wait.(*fakeSemaphore).wait(); err != nil {
		return err
	}
	if len(q.presentErrs) > 0 {
		err := q.presentErrs[0]
		q.presentErrs = q.presentErrs[1:]
		return err
	}
	return nil
}

// fakeRebuilder idles the fake GPU and restarts the chain
type fakeRebuilder struct {
	queue      *fakeQueue
	imageCount int
	calls      int
	err        error
}

func (r *fakeRebuilder) RebuildChain() (int, error) {
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	r.queue.gpu.idle()
	r.queue.imageCount = r.imageCount
	r.queue.next = 0
	r.queue.imageFence = make(map[int]*fakeFence)
	return r.imageCount, nil
}

func suboptimal() error {
	return errors.Mark(errors.New("VK_SUBOPTIMAL_KHR"), ErrChainSuboptimal)
}

func outOfDate() error {
	return errors.Mark(errors.New("VK_ERROR_OUT_OF_DATE_KHR"), ErrChainOutOfDate)
}
