package device

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
)

// Init initializes GLFW and the Vulkan loader through GLFW's proc address
// lookup. Must be called on the main thread before creating any Device.
//
// Returns:
//   - error: the GLFW or loader initialization failure, or nil
func Init() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return vk.Init()
}

// RequiredInstanceExtensions returns the instance extensions the window
// system needs for surface creation, to pass to WithInstanceExtensions.
//
// Parameters:
//   - win: a GLFW window created with the Vulkan client API hint
//
// Returns:
//   - []string: the GLFW-reported extension names
func RequiredInstanceExtensions(win *glfw.Window) []string {
	return win.GetRequiredInstanceExtensions()
}

// Terminate shuts GLFW down. Call last, on the main thread.
func Terminate() {
	glfw.Terminate()
}
