package ceacli

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ceabridge/internal/msglog"
)

// Module is the python module the bridge invokes.
const Module = "cea.cli"

// DefaultWeather is the weather name the CLI resolves when no selection is
// usable.
const DefaultWeather = "default"

// Locate keys understood by the CLI's `locate` subcommand.
const (
	LocateRadiation         = "get_radiation"
	LocateSurfaceProperties = "get_surface_properties"
)

// Client invokes the external CEA CLI as `<python> -m cea.cli ...`.
//
// A Client is stateless per invocation: every call spawns one child
// process and returns once it has exited.
type Client struct {
	interp Interpreter
	log    *zap.Logger
}

// NewClient creates a client for a discovered interpreter. An interpreter
// with an empty python path is rejected up front so that no later call can
// reach the spawn path unconfigured.
func NewClient(interp Interpreter, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(interp.Python) == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{interp: interp, log: log}, nil
}

// argv builds the canonical CLI invocation. The scenario flag is included
// only when a scenario is given; unbuffered mode (-u) keeps streamed lines
// timely.
func (c *Client) argv(scenario string, args ...string) []string {
	out := []string{c.interp.Python, "-u", "-m", Module}
	if scenario != "" {
		out = append(out, "--scenario", scenario)
	}
	return append(out, args...)
}

func (c *Client) ready() error {
	if c == nil || strings.TrimSpace(c.interp.Python) == "" {
		return ErrNotConfigured
	}
	return nil
}

// Query runs a read-only subcommand and returns its trimmed stdout.
// A non-zero exit is reported as an *ExecError.
func (c *Client) Query(ctx context.Context, scenario string, args ...string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	argv := c.argv(scenario, args...)
	c.log.Debug("cea cli query", zap.Strings("argv", argv))
	return capture(ctx, argv)
}

// Run executes a subcommand and forwards each output line to the sink as
// it arrives. Lines are delivered exactly once. A non-zero exit is
// reported as an *ExecError after all output has been delivered.
func (c *Client) Run(ctx context.Context, scenario string, sink msglog.Sink, args ...string) error {
	if err := c.ready(); err != nil {
		return err
	}
	argv := c.argv(scenario, args...)
	c.log.Info("cea cli run", zap.Strings("argv", argv))

	code, err := stream(ctx, argv, func(line string) {
		msglog.SafeMessage(sink, line)
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExecError{Args: argv, ExitCode: code}
	}
	return nil
}

// WeatherNames lists the weather files registered with the CEA, one name
// per output line of `weather-files`.
func (c *Client) WeatherNames(ctx context.Context) ([]string, error) {
	out, err := c.Query(ctx, "", "weather-files")
	if err != nil {
		return nil, fmt.Errorf("listing weather files: %w", err)
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// WeatherPath resolves a registered weather name to an absolute path via
// `weather-path`. An empty name resolves the default weather file.
func (c *Client) WeatherPath(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = DefaultWeather
	}
	out, err := c.Query(ctx, "", "weather-path", name)
	if err != nil {
		return "", fmt.Errorf("resolving weather %q: %w", name, err)
	}
	return out, nil
}

// Locate resolves a scenario data file through the CLI's `locate`
// subcommand.
func (c *Client) Locate(ctx context.Context, scenario, key string) (string, error) {
	out, err := c.Query(ctx, scenario, "locate", key)
	if err != nil {
		return "", fmt.Errorf("locating %s: %w", key, err)
	}
	return out, nil
}

// RadiationPath is the scenario's radiation result as the CLI locates it.
func (c *Client) RadiationPath(ctx context.Context, scenario string) (string, error) {
	return c.Locate(ctx, scenario, LocateRadiation)
}

// SurfacePropertiesPath is the scenario's surface-properties result as the
// CLI locates it.
func (c *Client) SurfacePropertiesPath(ctx context.Context, scenario string) (string, error) {
	return c.Locate(ctx, scenario, LocateSurfaceProperties)
}

// RunDemand runs the demand simulation for a scenario with a concrete
// weather file, streaming progress to the sink.
func (c *Client) RunDemand(ctx context.Context, scenario, weatherPath string, sink msglog.Sink) error {
	return c.Run(ctx, scenario, sink, "demand", "--weather", weatherPath)
}
