package infra

import (
	"context"

	"go.uber.org/zap"

	"github.com/momentummm/screenguard/internal/domain"
)

// The real navigator and overlay live on the platform side of the bridge.
// These implementations back the replay/scan CLI path, where "perform
// global back" and "show overlay" become log lines.

// LogNavigator implements domain.Navigator by logging the back action.
type LogNavigator struct {
	logger *zap.Logger
}

// NewLogNavigator creates a logging navigator.
func NewLogNavigator(logger *zap.Logger) *LogNavigator {
	return &LogNavigator{logger: logger}
}

// NavigateBack logs the synthetic back action.
func (n *LogNavigator) NavigateBack(ctx context.Context) error {
	n.logger.Info("perform global back action")
	return nil
}

// LogOverlay implements domain.OverlayPresenter by logging the request.
type LogOverlay struct {
	logger *zap.Logger
}

// NewLogOverlay creates a logging overlay presenter.
func NewLogOverlay(logger *zap.Logger) *LogOverlay {
	return &LogOverlay{logger: logger}
}

// ShowBlockOverlay logs the overlay request.
func (o *LogOverlay) ShowBlockOverlay(appName, featureName string) error {
	o.logger.Info("show blocking overlay",
		zap.String("app", appName),
		zap.String("feature", featureName))
	return nil
}

var (
	_ domain.Navigator        = (*LogNavigator)(nil)
	_ domain.OverlayPresenter = (*LogOverlay)(nil)
)
