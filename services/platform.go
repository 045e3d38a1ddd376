// Package services wires the component services of the platform core into
// one graph for consumers (API layer, schedulers, tests).
package services

import (
	"learnhub/services/catalog"
	"learnhub/services/commerce"
	"learnhub/services/community"
	"learnhub/services/identity"
	"learnhub/services/progress"

	"gorm.io/gorm"
)

// Platform bundles every component service over one store.
type Platform struct {
	Identity  *identity.Service
	Catalog   *catalog.Service
	Commerce  *commerce.Service
	Progress  *progress.Service
	Community *community.Service
}

// NewPlatform builds the service graph. The commerce engine feeds the
// progress engine on enrollment activation; the progress engine drives the
// enrollment to completed via the commerce engine.
func NewPlatform(db *gorm.DB) *Platform {
	commerceSvc := commerce.NewService(db)
	progressSvc := progress.NewService(db, commerceSvc)
	commerceSvc.Completions = progressSvc

	return &Platform{
		Identity:  identity.NewService(db),
		Catalog:   catalog.NewService(db),
		Commerce:  commerceSvc,
		Progress:  progressSvc,
		Community: community.NewService(db),
	}
}
