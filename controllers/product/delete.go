package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/gin-gonic/gin"
)

// DELETE /admin/products/:id
func DeleteProduct(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid product ID", nil)
			return
		}

		if err := writer.DeleteProduct(c.Request.Context(), uint(id)); err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Product deleted", nil)
	}
}
