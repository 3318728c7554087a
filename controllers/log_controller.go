package controllers

import (
	"fmt"
	"net/http"

	"caloriecam/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LogController struct {
	logs   *services.LogService
	export *services.ExportService
	log    logrus.FieldLogger
}

func NewLogController(logs *services.LogService, export *services.ExportService, log logrus.FieldLogger) *LogController {
	return &LogController{logs: logs, export: export, log: log}
}

func (lc *LogController) Today(c *gin.Context) {
	entry, err := lc.logs.Today(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (lc *LogController) Weekly(c *gin.Context) {
	week, err := lc.logs.Weekly(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": week})
}

func (lc *LogController) History(c *gin.Context) {
	logs, err := lc.logs.History(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// Export downloads the retained history as an XLSX workbook.
func (lc *LogController) Export(c *gin.Context) {
	uid := c.GetUint("userID")
	logs, err := lc.logs.History(c.Request.Context(), uid)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	data, err := lc.export.DailyLogsXLSX(logs)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="meal-log-%d.xlsx"`, uid))
	c.Data(http.StatusOK, xlsxContentType, data)
}
