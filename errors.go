package vkframe

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

var (
	// ErrNoEligibleDevice is returned when no physical device can drive the surface.
	ErrNoEligibleDevice = errors.New("no eligible physical device")
	// ErrNoQueueFamily is returned when no queue family supports graphics or presentation.
	ErrNoQueueFamily = errors.New("no queue family supports graphics and presentation")
	// ErrNoSurfaceFormats is returned when the surface reports no pixel formats.
	ErrNoSurfaceFormats = errors.New("surface reports no formats")
	// ErrNoPresentModes is returned when the surface reports no present modes.
	ErrNoPresentModes = errors.New("surface reports no present modes")

	// ErrChainOutOfDate marks acquire/present failures that a chain rebuild can recover from.
	ErrChainOutOfDate = errors.New("swapchain out of date")
	// ErrChainSuboptimal marks a present that succeeded on a chain that no
	// longer matches the surface exactly. Rebuilding is optional.
	ErrChainSuboptimal = errors.New("swapchain suboptimal")
	// ErrFenceTimeout is returned when a fence wait times out.
	ErrFenceTimeout = errors.New("fence wait timed out")
	// ErrImageIndexOutOfRange is returned when the chain hands back an index outside the chain.
	ErrImageIndexOutOfRange = errors.New("image index out of range")

	// ErrTeardownOrder is returned when resources are registered or released out of order.
	ErrTeardownOrder = errors.New("teardown order violation")
	// ErrSchedulerStopped wraps the error that stopped the frame scheduler.
	ErrSchedulerStopped = errors.New("frame scheduler stopped")
	// ErrWindowClosed is returned when the window closes while a chain is being rebuilt.
	ErrWindowClosed = errors.New("window closed")
)

// resultError converts a vulkan result into an error, nil on success.
func resultError(res vk.Result, op string) error {
	switch res {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate:
		return errors.Mark(errors.Wrapf(vk.Error(res), "%s", op), ErrChainOutOfDate)
	case vk.Timeout:
		return errors.Wrapf(ErrFenceTimeout, "%s", op)
	}
	err := vk.Error(res)
	if err == nil {
		err = errors.Newf("unexpected vulkan result %d", res)
	}
	return errors.Wrapf(err, "%s", op)
}

// IsChainOutOfDate reports whether err can be recovered by rebuilding the swapchain.
func IsChainOutOfDate(err error) bool {
	return errors.Is(err, ErrChainOutOfDate)
}

// acquireResult maps the result of an image acquire. A suboptimal chain still
// hands back a usable image.
func acquireResult(res vk.Result) error {
	if res == vk.Suboptimal {
		return nil
	}
	return resultError(res, "acquire next image")
}

// presentResult maps the result of a present. The image was queued when the
// chain is only suboptimal, so that case is marked ErrChainSuboptimal rather
// than out of date.
func presentResult(res vk.Result) error {
	if res == vk.Suboptimal {
		return errors.Mark(errors.New("queue present: swapchain suboptimal"), ErrChainSuboptimal)
	}
	return resultError(res, "queue present")
}

// IsChainSuboptimal reports whether err only asks for a chain rebuild.
func IsChainSuboptimal(err error) bool {
	return errors.Is(err, ErrChainSuboptimal)
}
