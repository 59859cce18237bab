package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/gin-gonic/gin"
)

// UpdateProduct updates base product fields only. Images, variants and
// tags are fixed at creation time.
func UpdateProduct(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid product ID", nil)
			return
		}

		var input catalog.UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
			return
		}

		product, err := writer.UpdateProduct(c.Request.Context(), uint(id), input)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Product updated", product)
	}
}
