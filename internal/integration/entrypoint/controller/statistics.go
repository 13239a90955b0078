package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecovekt/backend/internal/application/usecase/statistics"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/integration/entrypoint/dto"
)

// StatisticsController handles the waste history summary.
type StatisticsController struct {
	statisticsUseCase *statistics.GetWasteStatisticsUseCase
}

// NewStatisticsController creates a new statistics controller instance.
func NewStatisticsController(statisticsUseCase *statistics.GetWasteStatisticsUseCase) *StatisticsController {
	return &StatisticsController{
		statisticsUseCase: statisticsUseCase,
	}
}

// Get handles GET /me/statistics requests. The optional since query
// parameter accepts an RFC 3339 time or a YYYY-MM-DD date.
func (c *StatisticsController) Get(ctx *gin.Context) {
	var input statistics.GetWasteStatisticsInput
	if raw := ctx.Query("since"); raw != "" {
		since, err := parseSince(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "since must be an RFC 3339 time or a YYYY-MM-DD date",
				Code:  string(domainerror.ErrCodeInvalidRequest),
			})
			return
		}
		input.Since = &since
	}

	output, err := c.statisticsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domainerror.ErrNotAuthenticated) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "User not authenticated",
				Code:  string(domainerror.ErrCodeMissingToken),
			})
			return
		}
		slog.Error("Statistics request failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatisticsResponse(output))
}

func parseSince(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
