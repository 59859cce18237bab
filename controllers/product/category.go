package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/gin-gonic/gin"
)

func CreateCategory(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		if name == "" {
			httpapi.Respond(c, http.StatusBadRequest, "name is required", nil)
			return
		}

		image, closeFn, err := optionalImage(c)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Failed to read uploaded image", nil)
			return
		}
		if closeFn != nil {
			defer closeFn()
		}

		category, err := writer.CreateCategory(c.Request.Context(), name, image)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusCreated, "Category created", category)
	}
}

func UpdateCategory(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid category ID", nil)
			return
		}

		image, closeFn, err := optionalImage(c)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Failed to read uploaded image", nil)
			return
		}
		if closeFn != nil {
			defer closeFn()
		}

		category, err := writer.UpdateCategory(c.Request.Context(), uint(id), c.PostForm("name"), image)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Category updated", category)
	}
}

func GetAllCategories(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := writer.ListCategories(c.Request.Context())
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Categories fetched", categories)
	}
}

func GetCategoryByID(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid category ID", nil)
			return
		}

		category, err := writer.GetCategory(c.Request.Context(), uint(id))
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Category fetched", category)
	}
}

func DeleteCategory(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid category ID", nil)
			return
		}

		if err := writer.DeleteCategory(c.Request.Context(), uint(id)); err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Category deleted", nil)
	}
}

// optionalImage opens the "image" form file when present. The returned
// close func is nil when no file was uploaded.
func optionalImage(c *gin.Context) (*catalog.ImageInput, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &catalog.ImageInput{FileName: fh.Filename, Data: f}, func() { f.Close() }, nil
}
