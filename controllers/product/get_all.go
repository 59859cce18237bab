package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/gin-gonic/gin"
)

// GET /products?search=&page=&page_size=
func GetProducts(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

		products, total, err := writer.ListProducts(c.Request.Context(), catalog.ListOptions{
			Search:   c.Query("search"),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			httpapi.Error(c, err)
			return
		}

		httpapi.Respond(c, http.StatusOK, "Products fetched", gin.H{
			"products": products,
			"total":    total,
			"page":     page,
		})
	}
}
