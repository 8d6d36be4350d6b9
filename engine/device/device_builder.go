package device

// DeviceOption is a functional option used to configure a Device during construction.
type DeviceOption func(*device)

// WithAppName sets the application name reported to the Vulkan driver.
//
// Parameters:
//   - name: the application name
//
// Returns:
//   - DeviceOption: a function that sets the application name for this device
func WithAppName(name string) DeviceOption {
	return func(d *device) {
		d.appName = name
	}
}

// WithAPIVersion sets the Vulkan API version requested at instance creation.
//
// Parameters:
//   - version: the packed version, e.g. vk.MakeVersion(1, 2, 0)
//
// Returns:
//   - DeviceOption: a function that sets the API version for this device
func WithAPIVersion(version uint32) DeviceOption {
	return func(d *device) {
		d.apiVersion = version
	}
}

// WithInstanceExtensions appends instance extension names to enable, e.g. the
// surface extensions a window system reports.
//
// Parameters:
//   - exts: the extension names
//
// Returns:
//   - DeviceOption: a function that appends the extensions for this device
func WithInstanceExtensions(exts ...string) DeviceOption {
	return func(d *device) {
		d.instanceExts = append(d.instanceExts, exts...)
	}
}

// WithDeviceExtensions appends logical-device extension names to enable.
//
// Parameters:
//   - exts: the extension names
//
// Returns:
//   - DeviceOption: a function that appends the extensions for this device
func WithDeviceExtensions(exts ...string) DeviceOption {
	return func(d *device) {
		d.deviceExts = append(d.deviceExts, exts...)
	}
}

// WithValidationLayers appends validation layer names to enable on both the
// instance and the logical device.
//
// Parameters:
//   - layers: the layer names, e.g. "VK_LAYER_KHRONOS_validation"
//
// Returns:
//   - DeviceOption: a function that appends the layers for this device
func WithValidationLayers(layers ...string) DeviceOption {
	return func(d *device) {
		d.validationLayers = append(d.validationLayers, layers...)
	}
}
