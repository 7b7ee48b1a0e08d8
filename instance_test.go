package vkframe

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestDebugReportLevel(t *testing.T) {
	tests := []struct {
		flags vk.DebugReportFlagBits
		level slog.Level
	}{
		{vk.DebugReportErrorBit, slog.LevelError},
		{vk.DebugReportErrorBit | vk.DebugReportWarningBit, slog.LevelError},
		{vk.DebugReportWarningBit, slog.LevelWarn},
		{vk.DebugReportPerformanceWarningBit, slog.LevelWarn},
		{vk.DebugReportInformationBit, slog.LevelDebug},
		{vk.DebugReportDebugBit, slog.LevelDebug},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, DebugReportLevel(vk.DebugReportFlags(tt.flags)), "flags %#x", tt.flags)
	}
}

func TestAppExtensions(t *testing.T) {
	a := &App{Name: "test"}
	a.EnableExtension("VK_KHR_surface").EnableExtension("VK_KHR_surface").EnableExtension(debugReportExtension)
	assert.Equal(t, []string{"VK_KHR_surface", debugReportExtension}, a.EnabledExtensions)
	assert.True(t, a.debugReportEnabled())

	info := a.VKApplicationInfo()
	assert.Equal(t, "test\x00", info.PApplicationName)
	assert.Equal(t, 1, a.APIVersion.Major)
}
