package ratings

import (
	"fmt"
	"net/http"

	"api/middleware"
	"api/services"
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// [GET] GetCompetitionRatingData
// @Summary Get aggregated rating data
// @Description Get per-parameter averages and totals for every approved entry of a competition
// @Tags Ratings
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} services.CompetitionRatingData
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/rating-data [get]
// @Security Bearer
func GetCompetitionRatingData(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	competitionID := c.Param("id")

	// Step 2: Check visibility
	allowed, err := services.CanViewRatingData(competitionID, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !allowed && !user.IsAdmin {
		respondWithError(c, http.StatusForbidden, ErrNoPermissionView)
		return
	}

	// Step 3: Aggregate
	data, err := services.GetCompetitionRatingData(competitionID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// [GET] ExportCompetitionCSV
// @Summary Export ratings as CSV
// @Description Export the full rating table of a competition as CSV (creator only)
// @Tags Ratings
// @Produce text/csv
// @Param id path string true "Competition ID"
// @Success 200 {string} string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/ratings/export [get]
// @Security Bearer
func ExportCompetitionCSV(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	competitionID := c.Param("id")

	// Step 2: Only the creator may export
	allowed, err := services.CanExportRatingData(competitionID, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !allowed {
		respondWithError(c, http.StatusForbidden, ErrNoPermissionExport)
		return
	}

	// Step 3: Generate the CSV
	csv, err := services.GenerateCompetitionCSV(competitionID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("competition_%s_ratings.csv", competitionID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	// UTF-8 BOM so spreadsheet tools detect the encoding
	c.Data(http.StatusOK, "text/csv; charset=utf-8", append([]byte("\xEF\xBB\xBF"), []byte(csv)...))
}

// [GET] ExportCompetitionXLSX
// @Summary Export ratings as XLSX
// @Description Export the full rating table of a competition as an Excel workbook (creator only)
// @Tags Ratings
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Competition ID"
// @Success 200 {string} binary
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/ratings/export/xlsx [get]
// @Security Bearer
func ExportCompetitionXLSX(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	competitionID := c.Param("id")

	allowed, err := services.CanExportRatingData(competitionID, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !allowed {
		respondWithError(c, http.StatusForbidden, ErrNoPermissionExport)
		return
	}

	data, err := services.GenerateCompetitionXLSX(competitionID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("competition_%s_ratings.xlsx", competitionID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
