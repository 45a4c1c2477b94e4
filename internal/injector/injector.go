//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zerodeaths/zerodeaths/internal/config"
	"github.com/zerodeaths/zerodeaths/internal/game"
)

func InitializeRuntime(cfg *config.Config, opts []game.Option) (*Runtime, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
