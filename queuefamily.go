package vkframe

import (
	vk "github.com/vulkan-go/vulkan"
)

type QueueFamilySlice []*QueueFamily

func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make([]*QueueFamily, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

func (ql QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsGraphics()
	})
}

// Caps reports what every family in the slice can do for the given surface
func (ql QueueFamilySlice) Caps(surface vk.Surface) []QueueCaps {
	caps := make([]QueueCaps, len(ql))
	for i, q := range ql {
		caps[i] = QueueCaps{
			Index:    q.Index,
			Graphics: q.IsGraphics(),
			Present:  q.SupportsPresent(surface),
		}
	}
	return caps
}

// Resolve picks the graphics and present families for surface
func (ql QueueFamilySlice) Resolve(surface vk.Surface) (QueueFamilyIndices, bool) {
	return ResolveQueueFamilies(ql.Caps(surface))
}

type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

func (q *QueueFamily) IsGraphics() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == vk.QueueFlags(vk.QueueGraphicsBit)
}

func (q *QueueFamily) SupportsPresent(surface vk.Surface) bool {
	var supportsPresent vk.Bool32
	vk.GetPhysicalDeviceSurfaceSupport(q.PhysicalDevice.VKPhysicalDevice, uint32(q.Index), surface, &supportsPresent)
	return supportsPresent == vk.True
}

// QueueCaps is the part of a queue family's description the engine cares about
type QueueCaps struct {
	Index    int
	Graphics bool
	Present  bool
}

// QueueFamilyIndices names the family used for graphics work and the one used
// for presentation. They are often the same family.
type QueueFamilyIndices struct {
	Graphics int
	Present  int
}

// Shared reports whether graphics and presentation use one family
func (q QueueFamilyIndices) Shared() bool {
	return q.Graphics == q.Present
}

// Unique returns the distinct families to request queues from, graphics first
func (q QueueFamilyIndices) Unique() []int {
	if q.Shared() {
		return []int{q.Graphics}
	}
	return []int{q.Graphics, q.Present}
}

// ResolveQueueFamilies selects the first family that supports both graphics
// and presentation. Failing that it falls back to the first graphics family
// and the first present family. ok is false when either role is unsupported.
func ResolveQueueFamilies(families []QueueCaps) (indices QueueFamilyIndices, ok bool) {
	graphics, present := -1, -1
	for _, f := range families {
		if f.Graphics && f.Present {
			return QueueFamilyIndices{Graphics: f.Index, Present: f.Index}, true
		}
		if f.Graphics && graphics < 0 {
			graphics = f.Index
		}
		if f.Present && present < 0 {
			present = f.Index
		}
	}
	if graphics < 0 || present < 0 {
		return QueueFamilyIndices{}, false
	}
	return QueueFamilyIndices{Graphics: graphics, Present: present}, true
}
