package server

import (
	"fmt"
	"net/http"

	"StructureSentinel/internal/logger"
	"StructureSentinel/internal/model"
	"StructureSentinel/internal/report"
	"StructureSentinel/internal/service"

	"github.com/labstack/echo/v4"
)

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Symbol  string         `json:"symbol"`
	Format  string         `json:"format" default:"json" validate:"oneof=json text"`
	Candles []model.Candle `json:"candles" validate:"required,min=1,dive"`
}

// BatchRequest is the body of POST /api/v1/analyze/batch.
type BatchRequest struct {
	Series []service.Series `json:"series" validate:"required,min=1,dive"`
}

// BatchResponse carries one item per requested series, in request order.
type BatchResponse struct {
	Items     []service.BatchItem `json:"items"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// AnalysisHandler serves the analysis API.
type AnalysisHandler struct {
	analyzer   *service.Analyzer
	log        *logger.Logger
	maxCandles int
	maxSeries  int
}

// NewAnalysisHandler creates the handler. Non-positive limits disable the check.
func NewAnalysisHandler(analyzer *service.Analyzer, log *logger.Logger, maxCandles, maxSeries int) *AnalysisHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalysisHandler{analyzer: analyzer, log: log, maxCandles: maxCandles, maxSeries: maxSeries}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	v1 := e.Group("/api/v1")
	v1.POST("/analyze", h.Analyze)
	v1.POST("/analyze/batch", h.AnalyzeBatch)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	return SuccessResponse(c, map[string]interface{}{
		"status": "ok",
		"engine": h.analyzer.Params(),
	})
}

func (h *AnalysisHandler) Analyze(c echo.Context) error {
	var req AnalyzeRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		return BadRequestResponse(c, errs)
	}
	if h.maxCandles > 0 && len(req.Candles) > h.maxCandles {
		return AppErrorResponse(c, tooManyCandles(h.maxCandles))
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), req.Symbol, req.Candles)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Status >= http.StatusInternalServerError {
			h.log.Error("analyze failed", logger.String("symbol", req.Symbol), logger.Error(err))
		}
		return AppErrorResponse(c, appErr)
	}

	if req.Format == "text" {
		return c.String(http.StatusOK, report.FormatAnalysis(req.Symbol, res))
	}
	return SuccessResponse(c, res)
}

func (h *AnalysisHandler) AnalyzeBatch(c echo.Context) error {
	var req BatchRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		return BadRequestResponse(c, errs)
	}
	if h.maxSeries > 0 && len(req.Series) > h.maxSeries {
		return AppErrorResponse(c, NewAppError("ERR_MAX", "series",
			fmt.Sprintf("series must contain at most %d items", h.maxSeries), http.StatusBadRequest).
			WithParam("max", h.maxSeries))
	}
	for _, s := range req.Series {
		if h.maxCandles > 0 && len(s.Candles) > h.maxCandles {
			return AppErrorResponse(c, tooManyCandles(h.maxCandles).WithParam("symbol", s.Symbol))
		}
	}

	items, err := h.analyzer.AnalyzeBatch(c.Request().Context(), req.Series)
	if err != nil {
		return AppErrorResponse(c, toAppError(err))
	}
	resp := BatchResponse{Items: items}
	for _, it := range items {
		if it.Error != "" {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}
	return SuccessResponse(c, resp)
}

func tooManyCandles(max int) *AppError {
	return NewAppError("ERR_MAX", "candles",
		fmt.Sprintf("candles must contain at most %d items", max), http.StatusBadRequest).
		WithParam("max", max)
}
