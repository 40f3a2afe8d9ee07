package testutil

import (
	"github.com/toyland-demo/toyland"
)

// TestConfig returns validated settings suitable for tests that do not
// touch the network.
func TestConfig() *toyland.Settings {
	settings := &toyland.Settings{
		Api: toyland.APIConfig{
			Port:        8181,
			CORSOrigins: []string{"*"},
		},
		Database: toyland.DBSettings{
			DB: "toyland_test",
		},
		Logging: toyland.LoggerConfig{Level: "warning"},
	}
	if err := settings.Validate(); err != nil {
		panic(err)
	}

	return settings
}
