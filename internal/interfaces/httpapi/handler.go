package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
	"github.com/riskibarqy/pickem-standings/internal/usecase"
)

// ScoringCoordinator is the part of the recalculation coordinator the ops
// surface drives.
type ScoringCoordinator interface {
	CalculateNow(ctx context.Context, key game.WeekKey, trigger recalc.Trigger) (usecase.RunOutcome, error)
	EnsureScored(ctx context.Context, key game.WeekKey, trigger recalc.Trigger) (usecase.RunOutcome, error)
	Verify(ctx context.Context, key game.WeekKey) ([]standings.Discrepancy, error)
	Health(ctx context.Context) (recalc.HealthStatus, error)
}

type StandingsReader interface {
	WeeklyStandings(ctx context.Context, key game.WeekKey) (usecase.WeeklyStandingsView, error)
	SeasonStandings(ctx context.Context, season int) (usecase.SeasonStandingsView, error)
}

type Handler struct {
	coordinator ScoringCoordinator
	standings   StandingsReader
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(coordinator ScoringCoordinator, standingsReader StandingsReader, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		coordinator: coordinator,
		standings:   standingsReader,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
