// Package autoload initializes the global logger from the LOG_* environment
// on blank import.
package autoload

import (
	configx "deckpilot/pkg/config"
	logx "deckpilot/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
