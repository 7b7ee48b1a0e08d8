// Command vkframe opens a window and draws the fixed triangle pipeline until
// the window closes or the process is interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/celer/vkframe"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

func init() {
	// GLFW and the Vulkan surface must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vkframe: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML configuration file")
	validation := flag.Bool("validation", false, "enable the Khronos validation layer")
	info := flag.Bool("info", false, "list physical devices and exit")
	flag.Parse()

	cfg := vkframe.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = vkframe.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *validation {
		cfg.EnableValidation = true
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw init")
	}
	defer glfw.Terminate()

	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vulkan init")
	}

	if *info {
		return listDevices(cfg, log)
	}

	shaders, err := vkframe.LoadShaders(cfg)
	if err != nil {
		return err
	}

	window, err := vkframe.NewGLFWWindow(cfg.Width, cfg.Height, cfg.AppName)
	if err != nil {
		return err
	}
	defer window.Destroy()

	engine, err := vkframe.NewEngine(cfg, window, shaders, log)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func listDevices(cfg vkframe.Config, log *slog.Logger) error {
	app := &vkframe.App{Name: cfg.AppName, EngineName: "vkframe"}
	if cfg.EnableValidation {
		app.EnableValidation(log)
	}
	instance, err := app.CreateInstance(log)
	if err != nil {
		return err
	}
	defer instance.Destroy()

	devices, err := instance.PhysicalDevices()
	if err != nil {
		return err
	}
	for i, pd := range devices {
		extensions, err := pd.SupportedExtensions()
		if err != nil {
			return err
		}
		families, err := pd.QueueFamilies()
		if err != nil {
			return err
		}
		missing := vkframe.MissingExtensions(extensions, []string{vkframe.SwapchainExtension})
		fmt.Printf("%d: %s\n", i, pd)
		fmt.Printf("\tgraphics families: %d of %d\n", len(families.FilterGraphics()), len(families))
		fmt.Printf("\textensions: %d, missing: %v\n", len(extensions), missing)
	}
	return nil
}
