package vkframe

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceCandidate is what device selection knows about one physical device
type DeviceCandidate struct {
	Name       string
	Type       vk.PhysicalDeviceType
	Families   QueueFamilyIndices
	HasQueues  bool
	Extensions []string
	// SurfaceOK is set when the surface reports at least one format and mode
	SurfaceOK bool
}

// MissingExtensions returns the entries of want absent from have, in want order
func MissingExtensions(have, want []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	var missing []string
	for _, w := range want {
		if _, ok := set[w]; !ok {
			missing = append(missing, w)
		}
	}
	return missing
}

func deviceTypeRank(t vk.PhysicalDeviceType) int {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 4
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 3
	case vk.PhysicalDeviceTypeVirtualGpu:
		return 2
	case vk.PhysicalDeviceTypeCpu:
		return 1
	}
	return 0
}

// Eligible reports why a candidate cannot drive the surface, nil if it can
func (c *DeviceCandidate) Eligible(required []string) error {
	if !c.HasQueues {
		return ErrNoQueueFamily
	}
	if missing := MissingExtensions(c.Extensions, required); len(missing) > 0 {
		return errors.Newf("missing extensions %v", missing)
	}
	if !c.SurfaceOK {
		return errors.New("surface reports no formats or present modes")
	}
	return nil
}

// PickDevice returns the index of the best eligible candidate. Discrete GPUs
// beat integrated ones, then virtual, then CPU. Ties go to the earlier device.
func PickDevice(candidates []DeviceCandidate, required []string) (int, error) {
	best, bestRank := -1, -1
	for i := range candidates {
		if candidates[i].Eligible(required) != nil {
			continue
		}
		if rank := deviceTypeRank(candidates[i].Type); rank > bestRank {
			best, bestRank = i, rank
		}
	}
	if best < 0 {
		return -1, ErrNoEligibleDevice
	}
	return best, nil
}

// SelectPhysicalDevice examines every device the instance knows and returns
// the best one able to render to and present on surface, with its queue
// families resolved.
func SelectPhysicalDevice(instance *Instance, surface vk.Surface, log *slog.Logger) (*PhysicalDevice, QueueFamilyIndices, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, QueueFamilyIndices{}, err
	}
	required := []string{SwapchainExtension}

	candidates := make([]DeviceCandidate, len(devices))
	for i, pd := range devices {
		c := DeviceCandidate{Name: pd.DeviceName, Type: pd.DeviceType()}
		if families, err := pd.QueueFamilies(); err == nil {
			c.Families, c.HasQueues = families.Resolve(surface)
		}
		if c.Extensions, err = pd.SupportedExtensions(); err != nil {
			log.Debug("cannot list device extensions", "device", pd.DeviceName, "err", err.Error())
		}
		if report, err := pd.SurfaceReport(surface); err == nil {
			c.SurfaceOK = report.Adequate()
		}
		candidates[i] = c
		log.Debug("physical device",
			"name", c.Name,
			"type", c.Type,
			"extensions", len(c.Extensions),
			"eligible", c.Eligible(required) == nil)
	}

	best, err := PickDevice(candidates, required)
	if err != nil {
		return nil, QueueFamilyIndices{}, errors.Wrapf(err, "%d devices examined", len(devices))
	}
	return devices[best], candidates[best].Families, nil
}
