//go:build wireinject
// +build wireinject

package di

import (
	"TapeReader/pkg/config"
	"TapeReader/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvidePriceSource,
		ProvidePublisher,
		ProvideMirror,

		// Core engine
		ProvideCycle,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
