package handler

import (
	"errors"
	"log"

	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// engineFor resolves the authenticated user's sync engine, starting it
// on first use. A failed start still yields a usable engine (empty
// collection, status disconnected), so reads degrade instead of erroring.
func engineFor(c *gin.Context, registry *usecase.EngineRegistry) *usecase.SyncEngine {
	userID := c.GetString("userID")
	if userID == "" {
		utils.Unauthorized(c, "Authentication required")
		return nil
	}

	engine, err := registry.Ensure(c.Request.Context(), userID)
	if err != nil {
		log.Printf("sync start for user %s: %v", userID, err)
	}
	if engine == nil {
		utils.InternalError(c, "Sync engine unavailable")
		return nil
	}
	return engine
}

func writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrAuthRequired):
		utils.Unauthorized(c, "Authentication required")
	case errors.Is(err, model.ErrValidation):
		utils.BadRequest(c, err.Error())
	default:
		utils.ServiceUnavailable(c, "Note store unavailable")
	}
}

func GetNotesHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	utils.Success(c, gin.H{
		"notes":       engine.Notes(),
		"sync_status": engine.SyncStatus(),
	})
}

func GetFilteredNotesHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	utils.Success(c, gin.H{
		"notes":  engine.FilteredNotes(),
		"filter": engine.Filter(),
	})
}

func SetFiltersHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	var filter model.NoteFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	engine.SetFilter(filter)
	utils.Success(c, gin.H{"message": "Filters updated"})
}

func CreateNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := engine.CreateNote(c.Request.Context(), req.ToDraft())
	if err != nil {
		writeMutationError(c, err)
		return
	}

	utils.Created(c, note)
}

func UpdateNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := engine.UpdateNote(c.Request.Context(), c.Param("id"), req.ToUpdate())
	if err != nil {
		writeMutationError(c, err)
		return
	}
	if note == nil {
		utils.NotFound(c, "Note not found")
		return
	}

	utils.Success(c, note)
}

func DeleteNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	deleted, err := engine.DeleteNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeMutationError(c, err)
		return
	}
	if !deleted {
		utils.NotFound(c, "Note not found")
		return
	}

	utils.Success(c, gin.H{"message": "Note deleted successfully"})
}

func ToggleFavoriteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}

	note, err := engine.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeMutationError(c, err)
		return
	}
	if note == nil {
		utils.NotFound(c, "Note not found")
		return
	}

	utils.Success(c, note)
}

func GetCurrentNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}
	utils.Success(c, gin.H{"current_note": engine.CurrentNote()})
}

func SetCurrentNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}
	if !engine.SetCurrentNote(c.Param("id")) {
		utils.NotFound(c, "Note not found")
		return
	}
	utils.Success(c, gin.H{"current_note": engine.CurrentNote()})
}

func ClearCurrentNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}
	engine.SetCurrentNote("")
	utils.Success(c, gin.H{"message": "Current note cleared"})
}

func GetSelectedNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}
	utils.Success(c, gin.H{"selected_note": engine.SelectedNote()})
}

func SetSelectedNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}
	if !engine.SetSelectedNote(c.Param("id")) {
		utils.NotFound(c, "Note not found")
		return
	}
	utils.Success(c, gin.H{"selected_note": engine.SelectedNote()})
}

func ClearSelectedNoteHandler(c *gin.Context, registry *usecase.EngineRegistry) {
	engine := engineFor(c, registry)
	if engine == nil {
		return
	}
	engine.SetSelectedNote("")
	utils.Success(c, gin.H{"message": "Selected note cleared"})
}
