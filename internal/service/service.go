// Package service ties the request parser, the psychrometric calculators
// and the response formatter into one handler per route variant.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dewpoint-server/internal/psychro"
	"dewpoint-server/internal/request"
	"dewpoint-server/internal/response"
	"dewpoint-server/internal/types"
)

type Variant string

const (
	// VariantMould serves /{t}/{rh} with dew point and mould index.
	VariantMould Variant = "mould"
	// VariantDewpoint serves GET /dewpoint/{t}/{rh} with dew point only.
	VariantDewpoint Variant = "dewpoint"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantMould, VariantDewpoint:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("unknown variant %q (allowed: mould, dewpoint)", s)
	}
}

// Route returns the path grammar of v.
func (v Variant) Route() request.Route {
	if v == VariantDewpoint {
		return request.DewpointRoute{}
	}
	return request.GenericRoute{}
}

// Recorder receives every handled calculation. Errors are logged by the
// service and never affect the response.
type Recorder interface {
	Record(ctx context.Context, c types.Calculation) error
}

type Service struct {
	variant   Variant
	route     request.Route
	recorders []Recorder
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(variant Variant, logger *slog.Logger, recorders ...Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		variant:   variant,
		route:     variant.Route(),
		recorders: recorders,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Variant() Variant { return s.variant }

// Handle computes the response for one request line.
func (s *Service) Handle(ctx context.Context, line string) response.Response {
	calc := types.Calculation{
		ID:          uuid.NewString(),
		Time:        s.now().UTC(),
		Route:       s.route.Name(),
		RequestLine: line,
	}

	resp := s.compute(line, &calc)
	calc.Status = resp.Status
	s.record(ctx, calc)
	return resp
}

func (s *Service) compute(line string, calc *types.Calculation) response.Response {
	trh, err := request.Parse(s.route, line)
	if err != nil {
		calc.Message = err.Error()
		var perr *request.Error
		if errors.As(err, &perr) {
			s.logger.Debug("request rejected", "id", calc.ID, "kind", perr.Kind.String(), "message", calc.Message)
			return response.Failure(http.StatusBadRequest, calc.Message)
		}
		s.logger.Error("request failed", "id", calc.ID, "error", err)
		return response.Failure(http.StatusInternalServerError, calc.Message)
	}

	t, rh := trh.T(), trh.RH()
	dewpoint := psychro.Dewpoint(trh)
	calc.Temperature = &t
	calc.Humidity = &rh
	calc.Dewpoint = &dewpoint

	if s.variant == VariantDewpoint {
		return response.Dewpoint(dewpoint)
	}
	mould := psychro.MouldIndex(trh)
	calc.MouldIndex = &mould
	return response.Mould(dewpoint, mould)
}

func (s *Service) record(ctx context.Context, calc types.Calculation) {
	for _, r := range s.recorders {
		if err := r.Record(ctx, calc); err != nil {
			s.logger.Warn("record calculation failed",
				"id", calc.ID,
				"recorder", fmt.Sprintf("%T", r),
				"error", err,
			)
		}
	}
}
