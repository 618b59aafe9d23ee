package cmd

import (
	"fmt"

	"github.com/manufgue/Monitor/internal/auth"
	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/config"
	"github.com/manufgue/Monitor/internal/engine"
	"github.com/manufgue/Monitor/internal/model"
	"github.com/manufgue/Monitor/internal/session"
)

// runtime bundles the wired components every command starts from.
type runtime struct {
	settings config.Settings
	targets  []model.HostTarget
	creds    model.Credentials
	sessions *session.Manager
	engine   *engine.Engine
}

// buildRuntime loads settings and targets, applies flag overrides, and
// assembles the client, session manager and engine. Flags beat the settings
// file and the environment; empty flag values leave the configured values
// alone. The override lands in settings itself, so downstream consumers
// (the targets watcher in particular) see the resolved paths.
func buildRuntime(flags *rootFlags) (*runtime, error) {
	settings, err := config.LoadSettings(flags.config)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if flags.targets != "" {
		settings.Targets = flags.targets
	}
	if flags.timeout > 0 {
		settings.Timeout = flags.timeout
	}
	if flags.user != "" {
		settings.User = flags.user
	}

	targets, err := config.LoadTargets(settings.Targets)
	if err != nil {
		return nil, fmt.Errorf("load targets: %w", err)
	}

	httpClient := client.NewDefaultClient(client.ClientConfig{Timeout: settings.Timeout})
	sessions := session.NewManager(session.NewStore(), auth.NewHTTPAuthenticator(settings.AuthTimeout))

	return &runtime{
		settings: settings,
		targets:  targets,
		creds:    settings.Credentials(),
		sessions: sessions,
		engine:   engine.New(httpClient, sessions),
	}, nil
}
