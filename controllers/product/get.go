package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/gin-gonic/gin"
)

// GET /products/:id
func GetProductByID(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid product ID", nil)
			return
		}

		product, err := writer.GetProduct(c.Request.Context(), uint(id))
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Product fetched", product)
	}
}
