package orion

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/pixl/glimpse"
	"github.com/oliverbestmann/pixl/pulse/gpu"
)

// App is driven by RunApp.
type App interface {
	// Initialize is called once before the first frame.
	Initialize(r *Rasterizer) error

	// Update is called before every frame.
	Update(r *Rasterizer) error
}

type RunAppOptions struct {
	// app to run. This is the only field that is required
	App App

	// Config defaults to DefaultConfig
	Config *Config

	// ConfigPath is watched for changes if set
	ConfigPath string
}

// RunApp opens a window and renders frames until the window is closed.
func RunApp(opts RunAppOptions) error {
	app := opts.App
	if app == nil {
		return errors.New("App must not be nil")
	}

	conf := DefaultConfig()
	if opts.Config != nil {
		conf = *opts.Config
	}

	if err := conf.Validate(); err != nil {
		return err
	}

	level, _ := conf.Level()
	slog.SetLogLoggerLevel(level)

	// create a new window
	win, err := glimpse.NewWindow(glimpse.WindowOptions{
		Width:     conf.Width,
		Height:    conf.Height,
		Title:     conf.Title,
		Resizable: conf.Resizable,
		Profile:   conf.Profile,
	})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	surfaceWidth, surfaceHeight := win.GetSize()

	// initialize the webgpu device
	dev, err := gpu.NewDevice(win.SurfaceDescriptor(), surfaceWidth, surfaceHeight, gpu.DeviceOptions{
		VertexCapacity: conf.BatchCapacity,
	})
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	r := New(dev, conf)
	defer r.Shutdown()

	err = r.Init(ShaderSources{
		Vertex:   gpu.VertexShader,
		Fragment: gpu.FragmentShader,
	})
	if err != nil {
		return err
	}

	if opts.ConfigPath != "" {
		if err := r.WatchConfig(opts.ConfigPath); err != nil {
			return err
		}
	}

	currentWindow.set(win)
	defer currentWindow.reset()

	r.Resize(surfaceWidth, surfaceHeight)

	if err := app.Initialize(r); err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	return win.Run(func() error {
		// get surface size for next frame
		r.Resize(win.GetSize())

		if err := app.Update(r); err != nil {
			return fmt.Errorf("update app: %w", err)
		}

		return r.Loop()
	})
}
