//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"fabtrak/internal/dbmysql"
	"fabtrak/internal/notif"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		ProvideConfig,
		dbmysql.NewMySQL,
		dbmysql.NewNotificationRepository,
		dbmysql.NewPreferenceRepository,
		ProvidePushDispatcher,
		ProvideEmailDispatcher,
		notif.NewNotificationService,
		notif.NewNotificationHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
