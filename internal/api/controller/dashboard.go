package controller

import (
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/domain/dto"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"net/http"
	"strings"
)

func (c *Controller) filters(ctx echo.Context, q dto.FiltersQuery) (domain.Filters, error) {
	return c.dashboardService.Filters(ctx.Request().Context(), q)
}

func graphView(s string, def domain.GraphView) (domain.GraphView, error) {
	if s == "" {
		return def, nil
	}
	return domain.ParseGraphView(s)
}

func mapView(s string) (domain.MapView, error) {
	if s == "" {
		return domain.MapViewCipNS, nil
	}
	return domain.ParseMapView(s)
}

func (c *Controller) GetAggregate(ctx echo.Context) error {
	var q dto.FiltersQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	filters, err := c.filters(ctx, q)
	if err != nil {
		return err
	}

	agg, err := c.dashboardService.Aggregate(ctx.Request().Context(), filters)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, agg.Redacted())
}

func (c *Controller) GetMap(ctx echo.Context) error {
	var q dto.MapQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	view, err := mapView(q.MapView)
	if err != nil {
		return err
	}

	filters, err := c.filters(ctx, q.FiltersQuery)
	if err != nil {
		return err
	}

	vm, err := c.dashboardService.MapView(ctx.Request().Context(), filters, view)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, vm)
}

func (c *Controller) GetMapCountry(ctx echo.Context) error {
	var q dto.MapCountryQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	view, err := mapView(q.MapView)
	if err != nil {
		return err
	}

	filters, err := c.filters(ctx, q.FiltersQuery)
	if err != nil {
		return err
	}

	cv, err := c.dashboardService.MapCountry(ctx.Request().Context(), filters, view, q.Name)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, cv)
}

func (c *Controller) GetCountries(ctx echo.Context) error {
	var q dto.FiltersQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	countries, err := c.dashboardService.Countries(ctx.Request().Context(), q.Organism)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, countries)
}

func (c *Controller) GetDistribution(ctx echo.Context) error {
	var q dto.GraphQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	view, err := graphView(q.View, domain.GraphViewNumber)
	if err != nil {
		return err
	}

	filters, err := c.filters(ctx, q.FiltersQuery)
	if err != nil {
		return err
	}

	vm, err := c.dashboardService.Distribution(ctx.Request().Context(), filters, view)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, vm)
}

func (c *Controller) GetDistributionTooltip(ctx echo.Context) error {
	var q dto.DistributionTooltipQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	filters, err := c.filters(ctx, q.FiltersQuery)
	if err != nil {
		return err
	}

	tooltip, err := c.dashboardService.DistributionTooltip(ctx.Request().Context(), filters, q.Year, dto.SplitList(q.Genotypes))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, tooltip)
}

func (c *Controller) GetFrequencies(ctx echo.Context) error {
	var q dto.GraphQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	view, err := graphView(q.View, domain.GraphViewPercentage)
	if err != nil {
		return err
	}

	filters, err := c.filters(ctx, q.FiltersQuery)
	if err != nil {
		return err
	}

	vm, err := c.dashboardService.Frequencies(ctx.Request().Context(), filters, view, dto.SplitList(q.Genotypes))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, vm)
}

func (c *Controller) GetDrugResistance(ctx echo.Context) error {
	var q dto.GraphQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	view, err := graphView(q.View, domain.GraphViewPercentage)
	if err != nil {
		return err
	}

	drugs, unknown := dto.ParseDrugs(q.Drugs)
	if len(unknown) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(unknown, ", "), constants.ErrUnknownMarker)
	}

	filters, err := c.filters(ctx, q.FiltersQuery)
	if err != nil {
		return err
	}

	vm, err := c.dashboardService.DrugResistance(ctx.Request().Context(), filters, view, drugs)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, vm)
}

func (c *Controller) GetGenotypeOptions(ctx echo.Context) error {
	var q dto.FiltersQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	filters, err := c.filters(ctx, q)
	if err != nil {
		return err
	}

	options, err := c.dashboardService.GenotypeOptions(ctx.Request().Context(), filters)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, options)
}

func (c *Controller) GetDefaults(ctx echo.Context) error {
	var q dto.FiltersQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	// reset clears the country and year selection
	q.Country, q.TimeInitial, q.TimeFinal = "", 0, 0
	filters, err := c.filters(ctx, q)
	if err != nil {
		return err
	}

	state, err := c.dashboardService.DefaultViewState(ctx.Request().Context(), filters)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, state)
}
