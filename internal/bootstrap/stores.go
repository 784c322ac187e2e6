package bootstrap

import (
	"github.com/eleven-am/voice-recorder/internal/profile"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideProfileStore(db *gorm.DB) *profile.Store {
	return profile.NewStore(db)
}

func RunMigrations(profileStore *profile.Store) error {
	return profileStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideProfileStore,
	),
	fx.Invoke(RunMigrations),
)
