//go:build wireinject
// +build wireinject

package di

import (
	"SignalDesk/pkg/config"
	"SignalDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The returned cleanup closes every connection opened here.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideStore,
		ProvideNewsStore,
		ProvideFlowStore,
		ProvideArticlePublisher,
		ProvideResponseCache,

		// Upstream providers
		ProvideMarketDataProvider,
		ProvideNewsProvider,
		ProvideLanguageAnalyzer,

		// Use cases
		ProvideTimeframeNormalizer,
		ProvideNewsIngestor,
		ProvideFlowDetector,

		ProvidePipelineHandler,
		ProvideApp,
	)
	return nil, nil, nil
}
