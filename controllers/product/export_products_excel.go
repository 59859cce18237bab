package productcontroller

import (
	"net/http"
	"strings"

	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ExportProductsToExcel writes the catalog as one row per variant for
// the merchandising team.
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.
			Preload("Category").
			Preload("Variants").
			Preload("Tags").
			Find(&products).Error; err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to fetch products", nil)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to create Excel sheet", nil)
			return
		}

		// Header row
		headers := []string{
			"ProductID", "Name", "Category", "Tags",
			"VariantID", "Size", "Color", "Price", "Stock", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			var tags []string
			for _, t := range p.Tags {
				tags = append(tags, t.Name)
			}

			for _, v := range p.Variants {
				row := sheet.AddRow()
				row.AddCell().SetValue(p.ID)
				row.AddCell().SetValue(p.Name)
				row.AddCell().SetValue(p.Category.Name)
				row.AddCell().SetValue(strings.Join(tags, ","))
				row.AddCell().SetValue(v.ID)
				row.AddCell().SetValue(v.Size)
				row.AddCell().SetValue(v.Color)
				row.AddCell().SetValue(v.Price)
				row.AddCell().SetValue(v.Stock)
				row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			}
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to write Excel file", nil)
			return
		}
	}
}
