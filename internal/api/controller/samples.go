package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/ougirez/amrmap/internal/domain/dto"
	"github.com/ougirez/amrmap/internal/pkg/metrics"
	"net/http"
)

func (c *Controller) ImportSamples(ctx echo.Context) error {
	resp, err := c.ingestService.ImportReader(ctx.Request().Context(), ctx.Request().Body, metrics.SourceUpload)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, resp)
}

// BackfillSamples fetches the URLs in the request body, or the configured
// sources when none are given.
func (c *Controller) BackfillSamples(ctx echo.Context) error {
	var req dto.BackfillRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&req); err != nil {
			return err
		}
	}

	urls := req.URLs
	if len(urls) == 0 {
		urls = c.backfillSources
	}

	resp, err := c.ingestService.Backfill(ctx.Request().Context(), urls)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}
