/*
Package vkframe presents frames to a window with Vulkan, keeping several frames
in flight at once.

The package is a thin layer over github.com/vulkan-go/vulkan. Each GPU object
has its own type exposing the native handle in a field prefixed with VK, a
constructor hanging off its parent (a Device creates its swapchain, command
pool, fences and semaphores) and a Destroy method.

Above that layer sit the pieces that make up a frame loop:

	NegotiateChain		picks format, present mode, extent, image count and sharing for a surface
	RenderTargetSet		one framebuffer per chain image, all sharing one render pass
	FramePool		N slots, each with an acquire semaphore, a render semaphore,
				a fence created signaled and a command buffer
	FrameScheduler		acquire, record, submit and present, one slot per frame, round robin
	Teardown		owns everything and destroys it in reverse construction order

A frame waits on its slot's fence, acquires a chain image, waits again if an
older frame from another slot still renders into that image, records, resets
the fence, submits and presents. The fence wait at the top of the frame is the
only thing bounding how far the CPU runs ahead of the GPU.

An out-of-date chain is the one recoverable error. The scheduler hands it to a
ChainRebuilder, which drains the device and rebuilds the chain and everything
sized by it. Every other error stops the scheduler for good.

Engine wires all of this to a Window, and cmd/vkframe runs it.
*/
package vkframe
