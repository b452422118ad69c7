package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/usecase"
)

func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Recalculate")
	defer span.End()

	var req scoringRunRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.coordinator.CalculateNow(ctx, req.key(), req.trigger())
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate week failed", "week", req.key().String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, runStatus(out), runOutcomeToDTO(out))
}

func (h *Handler) Ensure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Ensure")
	defer span.End()

	var req scoringRunRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.coordinator.EnsureScored(ctx, req.key(), req.trigger())
	if err != nil {
		h.logger.WarnContext(ctx, "ensure week scored failed", "week", req.key().String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, runStatus(out), runOutcomeToDTO(out))
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Verify")
	defer span.End()

	var req scoringRunRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	discrepancies, err := h.coordinator.Verify(ctx, req.key())
	if err != nil {
		h.logger.WarnContext(ctx, "verify week failed", "week", req.key().String(), "error", err)
		writeError(ctx, w, err)
		return
	}
	if discrepancies == nil {
		discrepancies = []standings.Discrepancy{}
	}

	writeSuccess(ctx, w, http.StatusOK, verifyResponseDTO{
		Key:           req.key().String(),
		Consistent:    len(discrepancies) == 0,
		Discrepancies: discrepancies,
	})
}

func (h *Handler) ScoringHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoringHealth")
	defer span.End()

	status, err := h.coordinator.Health(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "load scoring health failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeSuccess(ctx, w, code, status)
}

func (h *Handler) WeeklyStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WeeklyStandings")
	defer span.End()

	season, err := parsePositivePathInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	week, err := parsePositivePathInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	key := game.WeekKey{Season: season, Week: week}
	view, err := h.standings.WeeklyStandings(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "load weekly standings failed", "week", key.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeklyStandingsToDTO(view))
}

func (h *Handler) SeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SeasonStandings")
	defer span.End()

	season, err := parsePositivePathInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.standings.SeasonStandings(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "load season standings failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

// runStatus answers 202 when another run already held the key.
func runStatus(out usecase.RunOutcome) int {
	if out.Skipped {
		return http.StatusAccepted
	}
	return http.StatusOK
}

func parsePositivePathInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
