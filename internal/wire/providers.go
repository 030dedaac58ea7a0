package wire

import (
	"log"

	"gorm.io/gorm"

	"fabtrak/internal/common"
	"fabtrak/internal/config"
	"fabtrak/internal/notif"
)

type Application struct {
	Config  *config.Config
	DB      *gorm.DB
	Service *notif.NotificationService
	Handler *notif.NotificationHandler
}

func ProvideConfig() *config.Config {
	return config.LoadConfig()
}

// ProvidePushDispatcher returns nil: this deployment has no push transport,
// which the push observer treats as a normal "not delivered" outcome.
func ProvidePushDispatcher() common.PushDispatcher {
	return nil
}

func ProvideEmailDispatcher(cfg *config.Config) common.EmailDispatcher {
	return &LogEmailDispatcher{enabled: cfg.Email.Enabled}
}

// LogEmailDispatcher is the stand-in email collaborator; it only logs.
type LogEmailDispatcher struct {
	enabled bool
}

func (d *LogEmailDispatcher) Send(userID string, n *common.Notification) error {
	if !d.enabled {
		return nil
	}
	log.Printf("Email - To user: %s, Subject: %s", userID, n.Title)
	return nil
}
