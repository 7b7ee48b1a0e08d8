package vkframe

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ValidationLayer is the layer enabled by EnableValidation
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

const debugReportExtension = "VK_EXT_debug_report"

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v *Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App is used to provide information about this specific application to Vulkan
type App struct {
	// Name the name of the application
	Name string
	// Engine the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version

	// EnabledLayers the enabled layers
	EnabledLayers []string

	// EnabledExtensions the enabled extensions
	EnabledExtensions []string
}

// SupportedLayers returns a list of supported layers for use by Vulkan.
// The loader must have been initialized.
func SupportedLayers() ([]string, error) {
	var instanceLayerLen uint32
	err := vk.Error(vk.EnumerateInstanceLayerProperties(&instanceLayerLen, nil))
	if err != nil {
		return nil, err
	}
	instanceLayer := make([]vk.LayerProperties, instanceLayerLen)
	err = vk.Error(vk.EnumerateInstanceLayerProperties(&instanceLayerLen, instanceLayer))
	if err != nil {
		return nil, err
	}
	layerNames := make([]string, 0, len(instanceLayer))
	for _, layer := range instanceLayer {
		layer.Deref()
		layerNames = append(layerNames,
			vk.ToString(layer.LayerName[:]))
	}
	return layerNames, nil
}

// SupportedExtensions returns a list of supported instance extensions.
// The loader must have been initialized.
func SupportedExtensions() ([]string, error) {
	var instanceExtLen uint32
	err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &instanceExtLen, nil))
	if err != nil {
		return nil, err
	}
	instanceExt := make([]vk.ExtensionProperties, instanceExtLen)
	err = vk.Error(vk.EnumerateInstanceExtensionProperties("", &instanceExtLen, instanceExt))
	if err != nil {
		return nil, err
	}
	extNames := make([]string, 0, len(instanceExt))
	for _, ext := range instanceExt {
		ext.Deref()
		extNames = append(extNames,
			vk.ToString(ext.ExtensionName[:]))
	}
	return extNames, nil
}

// EnableValidation turns on the Khronos validation layer and debug reporting.
// A missing layer is logged and otherwise ignored.
func (a *App) EnableValidation(log *slog.Logger) bool {
	if err := a.EnableLayer(ValidationLayer); err != nil {
		log.Warn("validation requested but unavailable", "err", err.Error())
		return false
	}
	a.EnableExtension(debugReportExtension)
	return true
}

// EnableLayer enables a specific layer if the loader knows it
func (a *App) EnableLayer(layer string) error {
	layers, err := SupportedLayers()
	if err != nil {
		return errors.Wrap(err, "get supported layers")
	}
	for _, l := range layers {
		if l == layer {
			a.EnabledLayers = append(a.EnabledLayers, layer)
			return nil
		}
	}
	return errors.Newf("layer '%s' not found", layer)
}

// Enable an extension for use by the application
func (a *App) EnableExtension(extension string) *App {
	for _, e := range a.EnabledExtensions {
		if e == extension {
			return a
		}
	}
	a.EnabledExtensions = append(a.EnabledExtensions, extension)
	return a
}

func (a *App) debugReportEnabled() bool {
	for _, e := range a.EnabledExtensions {
		if e == debugReportExtension {
			return true
		}
	}
	return false
}

//VKApplicationInfo creates a structure representing this application in a Vulkan friendly format
func (a *App) VKApplicationInfo() vk.ApplicationInfo {

	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}

	var appInfo = vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         a.APIVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
	return appInfo
}

// CreateInstance creates the Vulkan instance. When debug reporting was
// enabled, validation messages are routed to log.
func (a *App) CreateInstance(log *slog.Logger) (*Instance, error) {
	if log == nil {
		log = slog.Default()
	}
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(append([]string(nil), a.EnabledExtensions...))
	layers := safeStrings(append([]string(nil), a.EnabledLayers...))

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{log: log}

	err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance.VKInstance))
	if err != nil {
		return nil, errors.Wrap(err, "create instance")
	}
	vk.InitInstance(instance.VKInstance)

	if a.debugReportEnabled() {
		if err := instance.SetDebugCallback(instance.logDebugReport); err != nil {
			log.Warn("debug report callback unavailable", "err", err.Error())
		}
	}

	return instance, nil
}

//Instance is an instance of the Vulkan subsystem
type Instance struct {
	//VKInstance is the native Vulkan instance object
	VKInstance vk.Instance

	debugCallback    vk.DebugReportCallback
	hasDebugCallback bool
	log              *slog.Logger
}

//PhysicalDevices returns a list of physical devices known to Vulkan
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var deviceCount uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &deviceCount, nil))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	if deviceCount == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, deviceCount)
	err = vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &deviceCount, devices))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	ret := make([]*PhysicalDevice, deviceCount)
	for n, device := range devices {
		ret[n] = &PhysicalDevice{VKPhysicalDevice: device}

		vk.GetPhysicalDeviceProperties(device, &ret[n].VKPhysicalDeviceProperties)

		ret[n].VKPhysicalDeviceProperties.Deref()
		ret[n].DeviceName = vk.ToString(ret[n].VKPhysicalDeviceProperties.DeviceName[:])
	}
	return ret, nil

}

func (i *Instance) SetDebugCallback(callback vk.DebugReportCallbackFunc) error {
	var debugCallback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit | vk.DebugReportInformationBit),
		PfnCallback: callback,
	}, nil, &debugCallback)
	if err := vk.Error(ret); err != nil {
		return err
	}
	i.debugCallback = debugCallback
	i.hasDebugCallback = true
	return nil
}

// DebugReportLevel maps validation message flags to a log level
func DebugReportLevel(flags vk.DebugReportFlags) slog.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return slog.LevelError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return slog.LevelWarn
	}
	return slog.LevelDebug
}

func (i *Instance) logDebugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	i.log.Log(context.Background(), DebugReportLevel(flags), pMessage, "layer", pLayerPrefix, "code", messageCode)
	return vk.Bool32(vk.False)
}

func (i *Instance) Destroy() {
	if i.hasDebugCallback {
		vk.DestroyDebugReportCallback(i.VKInstance, i.debugCallback, nil)
		i.hasDebugCallback = false
	}
	vk.DestroyInstance(i.VKInstance, nil)
}
