package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"puntoventa/internal/domain"
	"puntoventa/internal/export"
	"github.com/gin-gonic/gin"
)

func listSalesHandler(svc SalesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), c.Query("search"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sales"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales": list})
	}
}

func getSaleHandler(svc SalesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sale"})
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

func exportSalesHandler(svc SalesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", "csv")
		if format != "csv" && format != "xlsx" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
			return
		}

		list, err := svc.List(c.Request.Context(), c.Query("search"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sales"})
			return
		}

		var buf bytes.Buffer
		var contentType string
		switch format {
		case "csv":
			contentType = "text/csv"
			err = export.WriteCSV(&buf, list)
		case "xlsx":
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			err = export.WriteXLSX(&buf, list)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
			return
		}

		filename := export.Filename(format, time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}
