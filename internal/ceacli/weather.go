package ceacli

import (
	"context"
	"os"
	"strings"
)

// ResolveWeather turns a user's weather selection into a concrete file
// path.
//
// Resolution order:
//  1. A registered weather name resolves through `weather-path`, so the
//     result always matches what the listing advertises.
//  2. An existing path ending in .epw is used unchanged.
//  3. Anything else falls back to the default weather path.
func (c *Client) ResolveWeather(ctx context.Context, selection string) (string, error) {
	names, err := c.WeatherNames(ctx)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if name == selection {
			return c.WeatherPath(ctx, selection)
		}
	}
	if strings.HasSuffix(selection, ".epw") {
		if _, err := os.Stat(selection); err == nil {
			return selection, nil
		}
	}
	return c.WeatherPath(ctx, "")
}
