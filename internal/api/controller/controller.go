package controller

import (
	"github.com/ougirez/amrmap/internal/service/dashboard"
	"github.com/ougirez/amrmap/internal/service/ingest"
)

type Controller struct {
	dashboardService *dashboard.Service
	ingestService    *ingest.Service
	backfillSources  []string
}

func NewController(dashboardService *dashboard.Service, ingestService *ingest.Service, backfillSources []string) *Controller {
	return &Controller{
		dashboardService: dashboardService,
		ingestService:    ingestService,
		backfillSources:  backfillSources,
	}
}
