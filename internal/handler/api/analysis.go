package api

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"PerpParity/internal/domain/models"
	"PerpParity/internal/services/analytics"
	"PerpParity/internal/usecase"
	xhttp "PerpParity/pkg/http"
	xlogger "PerpParity/pkg/logger"
)

// AnalysisHandler exposes the comparison engine over Echo.
type AnalysisHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.Analyzer
	runner   *usecase.BatchRunner
}

func NewAnalysisHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer, runner *usecase.BatchRunner) *AnalysisHandler {
	return &AnalysisHandler{logger: logger, analyzer: analyzer, runner: runner}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/assets", h.Assets)
	g.GET("/anomalies", h.Anomalies)
	g.GET("/crosscorr", h.CrossCorrelation)
	g.GET("/prices", h.Prices)
	g.GET("/summary", h.Summary)
	g.POST("/run", h.Run)
}

// Assets lists the per-asset results of the latest completed run.
func (h *AnalysisHandler) Assets(c echo.Context) error {
	last := h.runner.LastResult()
	if last == nil {
		return xhttp.NotFoundResponse(c, "no completed analysis run")
	}
	return xhttp.ListResponse(c, last.Analyses, int64(len(last.Analyses)))
}

// Anomalies runs the rolling t-test for one asset and side on demand.
func (h *AnalysisHandler) Anomalies(c echo.Context) error {
	req := &models.AnomalyQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Anomalies(c.Request().Context(), *req)
	if err != nil {
		return h.engineError(c, "anomalies", err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

// CrossCorrelation runs the lag sweep for one asset on demand.
func (h *AnalysisHandler) CrossCorrelation(c echo.Context) error {
	req := &models.CrossCorrQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.CrossCorrelation(c.Request().Context(), *req)
	if err != nil {
		return h.engineError(c, "crosscorr", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Prices runs the price comparison for one asset on demand.
func (h *AnalysisHandler) Prices(c echo.Context) error {
	req := &models.PriceQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Prices(c.Request().Context(), *req)
	if err != nil {
		return h.engineError(c, "prices", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Summary returns the per-type rollups of the latest completed run,
// optionally filtered to one asset type.
func (h *AnalysisHandler) Summary(c echo.Context) error {
	req := &models.SummaryQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	last := h.runner.LastResult()
	if last == nil {
		return xhttp.NotFoundResponse(c, "no completed analysis run")
	}
	if req.AssetType == "" {
		return xhttp.ListResponse(c, last.Summaries, int64(len(last.Summaries)))
	}
	for _, s := range last.Summaries {
		if s.AssetType == req.AssetType {
			return xhttp.SuccessResponse(c, s)
		}
	}
	return xhttp.NotFoundResponse(c, "unknown asset type")
}

// Run kicks off a full batch run in the background.
func (h *AnalysisHandler) Run(c echo.Context) error {
	if h.runner.Running() {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_RUN_IN_PROGRESS", "", usecase.ErrRunInProgress.Error(), 409))
	}

	// Detach from the request context: the run outlives the response.
	go func() {
		if _, err := h.runner.Run(context.Background()); err != nil &&
			!errors.Is(err, usecase.ErrRunInProgress) {
			h.logger.Error("background run failed", xlogger.Error(err))
		}
	}()
	return xhttp.AcceptedResponse(c, map[string]string{"status": "started"})
}

// engineError maps series validation failures to 400s; everything else is a
// 500 with the detail kept out of the response body.
func (h *AnalysisHandler) engineError(c echo.Context, op string, err error) error {
	var serr *analytics.SeriesError
	if errors.As(err, &serr) {
		return xhttp.AppErrorResponse(c,
			xhttp.BadRequestError(serr.Error()).WithError(err))
	}
	h.logger.Error(op+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}
