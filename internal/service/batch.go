package service

import (
	"context"

	"StructureSentinel/internal/logger"
	"StructureSentinel/internal/model"

	"golang.org/x/sync/errgroup"
)

// Series is one instrument's candles in a batch request.
type Series struct {
	Symbol  string         `json:"symbol" validate:"required"`
	Candles []model.Candle `json:"candles" validate:"required,min=1,dive"`
}

// BatchItem is the outcome for one series. Exactly one of Result and Error is set.
type BatchItem struct {
	Symbol string                `json:"symbol"`
	Result *model.AnalysisResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// AnalyzeBatch analyzes every series on a bounded worker pool. A failing series
// is reported in its item and does not affect the others. Items keep the input
// order. The returned error is only set when ctx is cancelled.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, series []Series) ([]BatchItem, error) {
	items := make([]BatchItem, len(series))
	if a.metrics != nil {
		a.metrics.RecordBatch(len(series))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, s := range series {
		i, s := i, s
		g.Go(func() error {
			items[i].Symbol = s.Symbol
			if err := gctx.Err(); err != nil {
				items[i].Error = err.Error()
				return err
			}
			res, err := a.Analyze(gctx, s.Symbol, s.Candles)
			if err != nil {
				items[i].Error = err.Error()
				a.log.Info("batch series rejected", logger.String("symbol", s.Symbol), logger.Error(err))
				return nil
			}
			items[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}
