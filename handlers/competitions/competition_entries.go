package competitions

import (
	"encoding/json"
	"net/http"

	"api/metrics"
	"api/middleware"
	"api/realtime"
	"api/services"
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// [GET] GetCompetitionEntries
// @Summary Get a competition's entries
// @Description Get the live entries of a competition in display order
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {array} models.CompetitionEntry
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/entries [get]
// @Security Bearer
func GetCompetitionEntries(c *gin.Context) {
	entries, err := services.GetCompetitionEntries(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// [POST] SubmitEntry
// @Summary Submit an entry
// @Description Submit one entry with its file while the competition accepts submissions
// @Tags Competitions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Competition ID"
// @Param entry_name formData string true "Entry name"
// @Param description formData string false "Entry description"
// @Param file formData file true "Entry file"
// @Success 201 {object} models.CompetitionEntry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/entries [post]
// @Security Bearer
func SubmitEntry(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	// Step 2: Parse the multipart form
	entryName := c.PostForm("entry_name")
	if entryName == "" {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, http.StatusBadRequest, ErrMissingEntryFile)
		return
	}

	// Step 3: Submit the entry
	entry, err := services.SubmitEntry(c.Param("id"), entryName, c.PostForm("description"), file, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// Step 4: Record metrics and notify listeners
	metrics.EntriesSubmitted.Inc()
	realtime.BroadcastCompetitionUpdate(realtime.CompetitionUpdate{
		CompetitionID: entry.CompetitionID,
		UpdateType:    realtime.UpdateEntrySubmitted,
		Payload:       gin.H{"entry_id": entry.ID, "entry_name": entry.EntryName},
	})

	c.JSON(http.StatusCreated, entry)
}

// [POST] AddEntriesBulk
// @Summary Add entries in bulk
// @Description Add several entries with positionally paired files (creator or admin)
// @Tags Competitions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Competition ID"
// @Param entries formData string true "JSON array of entries"
// @Param files formData file true "Entry files, one per entry"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /competitions/{id}/entries/bulk [post]
// @Security Bearer
func AddEntriesBulk(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	// Step 2: Parse the entries payload
	var inputs []services.EntryInput
	if err := json.Unmarshal([]byte(c.PostForm("entries")), &inputs); err != nil || len(inputs) == 0 {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	// Step 3: Collect the paired files
	form, err := c.MultipartForm()
	if err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	files := form.File["files"]
	if len(files) != len(inputs) {
		respondWithError(c, http.StatusBadRequest, ErrEntryFileCountMismatch)
		return
	}

	// Step 4: Add the entries
	ids, err := services.AddEntriesBulk(c.Param("id"), inputs, files, user.ID, user.IsAdmin)
	if err != nil {
		response.FromError(c, err)
		return
	}

	metrics.EntriesSubmitted.Add(float64(len(ids)))

	c.JSON(http.StatusCreated, gin.H{"entry_ids": ids})
}

// [PUT] UpdateEntryStatus
// @Summary Moderate an entry
// @Description Set an entry's moderation status (admin only)
// @Tags Competitions
// @Accept json
// @Produce json
// @Param entry_id path string true "Entry ID"
// @Param statusRequest body UpdateEntryStatusRequest true "Status request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /entries/{entry_id}/status [put]
// @Security Bearer
func UpdateEntryStatus(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	if !user.IsAdmin {
		respondWithError(c, http.StatusForbidden, "没有权限修改此作品")
		return
	}

	var req UpdateEntryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if err := services.UpdateEntryStatus(c.Param("entry_id"), req.Status); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry status updated"})
}

// [PUT] UpdateEntry
// @Summary Update an entry
// @Description Update an entry's name, description and optionally its file (contestant or admin)
// @Tags Competitions
// @Accept multipart/form-data
// @Produce json
// @Param entry_id path string true "Entry ID"
// @Param entry_name formData string true "Entry name"
// @Param description formData string false "Entry description"
// @Param file formData file false "Replacement file"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /entries/{entry_id} [put]
// @Security Bearer
func UpdateEntry(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	entryName := c.PostForm("entry_name")
	if entryName == "" {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	// The file is optional on update
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	if err := services.UpdateEntry(c.Param("entry_id"), entryName, c.PostForm("description"), file, user.ID, user.IsAdmin); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry updated"})
}

// [DELETE] DeleteEntry
// @Summary Delete an entry
// @Description Soft-delete an entry and remove its stored file (contestant or admin)
// @Tags Competitions
// @Produce json
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /entries/{entry_id} [delete]
// @Security Bearer
func DeleteEntry(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	if err := services.DeleteEntry(c.Param("entry_id"), user.ID, user.IsAdmin); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}
