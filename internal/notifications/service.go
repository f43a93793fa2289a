package notifications

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"

	"voxtype/internal/config"
)

const appName = "Voxtype"

// Service defines the notification surface used by the ui client.
type Service interface {
	NotifyDaemonStopped(ctx context.Context) error
	NotifyDaemonReady(ctx context.Context) error
	TestNotification(ctx context.Context) error
}

// NewService returns a desktop notifier when [ui] notifications is enabled,
// and a noop implementation otherwise.
func NewService(cfg *config.Config) Service {
	if cfg == nil || !cfg.UI.Notifications {
		return noopService{}
	}
	return &desktopService{send: beeep.Notify}
}

// NewServiceWithSender builds a desktop service around a custom sender,
// matching beeep.Notify's signature.
func NewServiceWithSender(send func(title, message string, icon any) error) Service {
	if send == nil {
		return noopService{}
	}
	return &desktopService{send: send}
}

type payload struct {
	title   string
	message string
}

type desktopService struct {
	send func(title, message string, icon any) error
}

func (d *desktopService) NotifyDaemonStopped(ctx context.Context) error {
	return d.deliver(ctx, payload{
		title:   appName + " - Daemon stopped",
		message: "The voxtype daemon is not running. Start it with: voxtype daemon",
	})
}

func (d *desktopService) NotifyDaemonReady(ctx context.Context) error {
	return d.deliver(ctx, payload{
		title:   appName + " - Ready",
		message: "Daemon is running. Hold the hotkey to record.",
	})
}

func (d *desktopService) TestNotification(ctx context.Context) error {
	return d.deliver(ctx, payload{
		title:   appName + " - Test",
		message: "Desktop notifications are working",
	})
}

func (d *desktopService) deliver(ctx context.Context, data payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.send(data.title, data.message, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyDaemonStopped(context.Context) error { return nil }

func (noopService) NotifyDaemonReady(context.Context) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
