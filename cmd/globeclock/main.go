// Command globeclock opens a window showing a day/night globe under an
// analog clock face.
//
// Configuration is read from the YAML file named by GLOBECLOCK_CONFIG, or
// from -config. GLOBECLOCK_LOG_LEVEL selects debug, info, warn or error
// output on stderr.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/wgpu"

	// Register every GPU backend available on this platform.
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/globeclock"
	"github.com/gogpu/globeclock/internal/compositor"
	"github.com/gogpu/globeclock/internal/render"
)

const (
	windowTitle = "Global Clock"
	windowSize  = 720

	// redrawInterval is the idle timer between redraws.
	redrawInterval = time.Second
)

func init() {
	// glfw must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", os.Getenv(globeclock.ConfigEnv), "YAML config file")
		assetsRoot = flag.String("assets", "", "directory overriding the bundled shaders and textures")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("GLOBECLOCK_LOG_LEVEL")),
	}))
	globeclock.SetLogger(log)

	cfg, err := globeclock.LoadConfig(*configPath, globeclock.DefaultConfig())
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	if *assetsRoot != "" {
		cfg.AssetsRoot = *assetsRoot
	}

	if err := run(log, cfg); err != nil {
		log.Error("globeclock stopped", "err", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(log *slog.Logger, cfg globeclock.Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	win, err := glfw.CreateWindow(windowSize, windowSize, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()

	gpu, err := acquireGPU(win)
	if err != nil {
		return err
	}
	defer gpu.release()

	info := gpu.adapter.Info()
	log.Info("gpu ready", "adapter", info.Name, "backend", info.Backend, "format", gpu.format)

	gc, err := render.NewGraphicsContext(gpu.adapter, gpu.device, gpu.surface, gpu.format)
	if err != nil {
		return err
	}
	surface := compositor.NewWGPUSurface(gpu.surface, gpu.device, gpu.format, gpu.alphaMode)

	scene, err := globeclock.NewScene(gc, newWindow(win), surface, cfg)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	defer scene.Destroy()

	var loopErr error
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if loopErr != nil {
			return
		}
		if err := scene.Resize(width, height); err != nil {
			loopErr = fmt.Errorf("resize: %w", err)
			return
		}
		loopErr = scene.Redraw(time.Now())
	})

	for !win.ShouldClose() && loopErr == nil {
		if err := scene.Redraw(time.Now()); err != nil {
			return err
		}
		glfw.WaitEventsTimeout(redrawInterval.Seconds())
	}
	if loopErr != nil {
		return loopErr
	}
	log.Info("window closed")
	return nil
}

// gpuHandles is everything acquired once at startup.
type gpuHandles struct {
	instance  *wgpu.Instance
	surface   *wgpu.Surface
	adapter   *wgpu.Adapter
	device    *wgpu.Device
	format    wgpu.TextureFormat
	alphaMode wgpu.CompositeAlphaMode
}

func acquireGPU(win *glfw.Window) (*gpuHandles, error) {
	display, window, err := nativeHandles(win)
	if err != nil {
		return nil, err
	}

	g := &gpuHandles{}
	g.instance, err = wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	g.surface, err = g.instance.CreateSurface(display, window)
	if err != nil {
		g.release()
		return nil, fmt.Errorf("create surface: %w", err)
	}
	g.adapter, err = g.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:   wgpu.PowerPreferenceLowPower,
		CompatibleSurface: g.surface,
	})
	if err != nil {
		g.release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	g.device, err = g.adapter.RequestDevice(nil)
	if err != nil {
		g.release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	caps := g.adapter.GetSurfaceCapabilities(g.surface)
	if caps == nil {
		g.release()
		return nil, errors.New("adapter cannot present to the window surface")
	}
	g.format, err = compositor.ChooseFormat(caps.Formats)
	if err != nil {
		g.release()
		return nil, err
	}
	g.alphaMode = compositor.ChooseAlphaMode(caps.AlphaModes)
	return g, nil
}

// release frees the handles in reverse acquisition order.
func (g *gpuHandles) release() {
	if g.device != nil {
		g.device.Release()
	}
	if g.adapter != nil {
		g.adapter.Release()
	}
	if g.surface != nil {
		g.surface.Release()
	}
	if g.instance != nil {
		g.instance.Release()
	}
}
