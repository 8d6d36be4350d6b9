// Package device wraps the Vulkan instance, physical-device selection and
// logical-device creation the shader subsystem builds on. It exposes the
// narrow surface programs need: shader-module lifetime and device limits.
package device

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

// device is the implementation of the Device interface.
type device struct {
	appName    string
	engineName string
	apiVersion uint32

	instanceExts     []string
	deviceExts       []string
	validationLayers []string

	instance vk.Instance
	gpu      vk.PhysicalDevice
	handle   vk.Device

	queueIndex uint32
	queue      vk.Queue

	props vk.PhysicalDeviceProperties
}

// Device owns one Vulkan instance, the selected physical device and one
// logical device with a graphics-capable queue. It creates and destroys
// shader modules and reports the device limits shader reflection needs.
type Device interface {
	// Instance returns the Vulkan instance handle.
	//
	// Returns:
	//   - vk.Instance: the instance handle
	Instance() vk.Instance

	// GPU returns the selected physical device handle.
	//
	// Returns:
	//   - vk.PhysicalDevice: the physical device handle
	GPU() vk.PhysicalDevice

	// Handle returns the logical device handle.
	//
	// Returns:
	//   - vk.Device: the logical device handle
	Handle() vk.Device

	// Queue returns the graphics queue and its family index.
	//
	// Returns:
	//   - vk.Queue: the queue handle
	//   - uint32: the queue family index
	Queue() (vk.Queue, uint32)

	// DeviceName returns the selected physical device's name.
	//
	// Returns:
	//   - string: the driver-reported device name
	DeviceName() string

	// CreateShaderModule wraps SPIR-V words into a Vulkan shader module.
	//
	// Parameters:
	//   - code: the SPIR-V words, must be non-empty
	//
	// Returns:
	//   - vk.ShaderModule: the created module handle
	//   - error: the driver's failure, or nil
	CreateShaderModule(code []uint32) (vk.ShaderModule, error)

	// DestroyShaderModule destroys a shader module handle. Passing the null
	// handle is a no-op.
	//
	// Parameters:
	//   - module: the module handle to destroy
	DestroyShaderModule(module vk.ShaderModule)

	// MinUniformBufferOffsetAlignment returns the device's minimum uniform
	// buffer offset alignment limit in bytes.
	//
	// Returns:
	//   - uint64: the alignment in bytes
	MinUniformBufferOffsetAlignment() uint64

	// MaxBoundDescriptorSets returns how many descriptor sets the device can
	// bind at once.
	//
	// Returns:
	//   - uint32: the device's set count limit
	MaxBoundDescriptorSets() uint32

	// WaitIdle blocks until the logical device finishes all queued work.
	WaitIdle()

	// Release destroys the logical device and the instance. The Device must
	// not be used afterwards.
	Release()
}

var _ Device = &device{}

// NewDevice creates a Device with all specified options applied: it creates
// the Vulkan instance, picks the first physical device with a graphics queue,
// reads its properties and creates the logical device and queue. The loader
// must have been initialized first (see Init).
//
// Parameters:
//   - opts: functional options configuring names, versions, layers and extensions
//
// Returns:
//   - Device: the new Device instance
//   - error: the first instance or device creation failure, or nil
func NewDevice(opts ...DeviceOption) (Device, error) {
	d := &device{
		appName:    "ogre-next",
		engineName: "ogre-next",
		apiVersion: vk.MakeVersion(1, 1, 0),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.createInstance(); err != nil {
		return nil, err
	}
	if err := d.selectGPU(); err != nil {
		vk.DestroyInstance(d.instance, nil)
		return nil, err
	}
	if err := d.createLogicalDevice(); err != nil {
		vk.DestroyInstance(d.instance, nil)
		return nil, err
	}
	return d, nil
}

func (d *device) createInstance() error {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(d.appName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        safeString(d.engineName),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         d.apiVersion,
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(d.instanceExts)),
		PpEnabledExtensionNames: safeStrings(d.instanceExts),
		EnabledLayerCount:       uint32(len(d.validationLayers)),
		PpEnabledLayerNames:     safeStrings(d.validationLayers),
	}, nil, &instance)
	if ret != vk.Success {
		return fmt.Errorf("vkCreateInstance failed: %d", ret)
	}
	d.instance = instance
	vk.InitInstance(instance)
	return nil
}

func (d *device) selectGPU() error {
	var count uint32
	vk.EnumeratePhysicalDevices(d.instance, &count, nil)
	if count == 0 {
		return errors.New("no Vulkan-capable GPUs found")
	}
	gpus := make([]vk.PhysicalDevice, count)
	vk.EnumeratePhysicalDevices(d.instance, &count, gpus)

	for _, gpu := range gpus {
		var queueCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &queueCount, nil)
		families := make([]vk.QueueFamilyProperties, queueCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &queueCount, families)

		for i := range families {
			families[i].Deref()
			if families[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
				d.gpu = gpu
				d.queueIndex = uint32(i)
				vk.GetPhysicalDeviceProperties(d.gpu, &d.props)
				d.props.Deref()
				d.props.Limits.Deref()
				return nil
			}
		}
	}
	return errors.New("no GPU with a graphics queue found")
}

func (d *device) createLogicalDevice() error {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: d.queueIndex,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	var handle vk.Device
	ret := vk.CreateDevice(d.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(d.deviceExts)),
		PpEnabledExtensionNames: safeStrings(d.deviceExts),
		EnabledLayerCount:       uint32(len(d.validationLayers)),
		PpEnabledLayerNames:     safeStrings(d.validationLayers),
	}, nil, &handle)
	if ret != vk.Success {
		return fmt.Errorf("vkCreateDevice failed: %d", ret)
	}
	d.handle = handle

	var queue vk.Queue
	vk.GetDeviceQueue(d.handle, d.queueIndex, 0, &queue)
	d.queue = queue
	return nil
}

func (d *device) Instance() vk.Instance {
	return d.instance
}

func (d *device) GPU() vk.PhysicalDevice {
	return d.gpu
}

func (d *device) Handle() vk.Device {
	return d.handle
}

func (d *device) Queue() (vk.Queue, uint32) {
	return d.queue, d.queueIndex
}

func (d *device) DeviceName() string {
	return vk.ToString(d.props.DeviceName[:])
}

func (d *device) CreateShaderModule(code []uint32) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(d.handle, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)) * 4,
		PCode:    code,
	}, nil, &module)
	if ret != vk.Success {
		return vk.NullShaderModule, fmt.Errorf("vkCreateShaderModule failed: %d", ret)
	}
	return module, nil
}

func (d *device) DestroyShaderModule(module vk.ShaderModule) {
	if module != vk.NullShaderModule {
		vk.DestroyShaderModule(d.handle, module, nil)
	}
}

func (d *device) MinUniformBufferOffsetAlignment() uint64 {
	return uint64(d.props.Limits.MinUniformBufferOffsetAlignment)
}

func (d *device) MaxBoundDescriptorSets() uint32 {
	return d.props.Limits.MaxBoundDescriptorSets
}

func (d *device) WaitIdle() {
	if d.handle != nil {
		vk.DeviceWaitIdle(d.handle)
	}
}

func (d *device) Release() {
	if d.handle != nil {
		vk.DeviceWaitIdle(d.handle)
		vk.DestroyDevice(d.handle, nil)
		d.handle = nil
	}
	if d.instance != nil {
		vk.DestroyInstance(d.instance, nil)
		d.instance = nil
	}
}

// safeString null-terminates a string for the C side of the Vulkan binding.
func safeString(s string) string {
	return s + "\x00"
}

// safeStrings null-terminates every string in the list.
func safeStrings(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = safeString(s)
	}
	return out
}
