package notify

import (
	"context"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

// permissionKey is the settings key holding the persisted permission state,
// mirroring the three-state browser permission model.
const permissionKey = "notify_permission"

// Compile-time interface check
var _ interfaces.Notifier = (*LogNotifier)(nil)

// LogNotifier is a Notifier that delivers through the structured log and
// persists its permission state in the settings store. It stands in for a
// platform delivery channel in server deployments.
type LogNotifier struct {
	settings interfaces.SettingsStore
	logger   *common.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(settings interfaces.SettingsStore, logger *common.Logger) *LogNotifier {
	return &LogNotifier{
		settings: settings,
		logger:   logger,
	}
}

// Permission returns the persisted permission state, defaulting to
// undetermined when nothing has been stored.
func (n *LogNotifier) Permission(ctx context.Context) models.Permission {
	value, err := n.settings.Get(ctx, permissionKey)
	if err != nil {
		return models.PermissionUndetermined
	}

	switch models.Permission(value) {
	case models.PermissionGranted:
		return models.PermissionGranted
	case models.PermissionDenied:
		return models.PermissionDenied
	default:
		return models.PermissionUndetermined
	}
}

// RequestPermission grants delivery permission and persists the decision.
// There is no interactive prompt on a headless server; an operator denies
// by setting the stored state to "denied".
func (n *LogNotifier) RequestPermission(ctx context.Context) (models.Permission, error) {
	current := n.Permission(ctx)
	if current != models.PermissionUndetermined {
		return current, nil
	}

	if err := n.settings.Set(ctx, permissionKey, string(models.PermissionGranted)); err != nil {
		return models.PermissionUndetermined, err
	}

	n.logger.Info().Msg("Notification permission granted")
	return models.PermissionGranted, nil
}

// Notify delivers one notification to the log. Fire-and-forget, no
// delivery confirmation.
func (n *LogNotifier) Notify(_ context.Context, title, body string) error {
	n.logger.Info().
		Str("title", title).
		Str("body", body).
		Msg("Notification")
	return nil
}
