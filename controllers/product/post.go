package productcontroller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/gin-gonic/gin"
)

// CreateProduct handles the multipart admin form: product fields, one
// color per image file, a JSON-encoded variants field and optional tags.
// The catalog writer makes the whole thing land atomically or not at all.
func CreateProduct(writer *catalog.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		description := c.PostForm("description")
		categoryIDStr := c.PostForm("category_id")
		if name == "" || description == "" || categoryIDStr == "" {
			httpapi.Respond(c, http.StatusBadRequest, "name, description and category_id are required", nil)
			return
		}

		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid category_id", nil)
			return
		}

		var variants []catalog.VariantInput
		if v := c.PostForm("variants"); v != "" {
			if err := json.Unmarshal([]byte(v), &variants); err != nil {
				httpapi.Respond(c, http.StatusBadRequest, "Invalid variants payload", nil)
				return
			}
		}

		colors := c.PostFormArray("colors")
		if len(colors) == 0 {
			// Also accept a single comma separated field
			for _, tok := range strings.Split(c.PostForm("colors"), ",") {
				if tok = strings.TrimSpace(tok); tok != "" {
					colors = append(colors, tok)
				}
			}
		}

		var tags []string
		for _, tok := range strings.Split(c.PostForm("tags"), ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				tags = append(tags, tok)
			}
		}

		form, err := c.MultipartForm()
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Images are required", nil)
			return
		}
		files := form.File["images"]
		alts := form.Value["alts"]

		images := make([]catalog.ImageInput, 0, len(files))
		openFiles := make([]interface{ Close() error }, 0, len(files))
		defer func() {
			for _, f := range openFiles {
				f.Close()
			}
		}()
		for i, fh := range files {
			f, err := fh.Open()
			if err != nil {
				httpapi.Respond(c, http.StatusBadRequest, "Failed to read uploaded image", nil)
				return
			}
			openFiles = append(openFiles, f)

			alt := ""
			if i < len(alts) {
				alt = alts[i]
			}
			images = append(images, catalog.ImageInput{
				FileName: fh.Filename,
				AltText:  alt,
				Data:     f,
			})
		}

		product, err := writer.CreateProduct(c.Request.Context(), catalog.CreateProductInput{
			Name:        name,
			Description: description,
			CategoryID:  uint(categoryID),
			Images:      images,
			Colors:      colors,
			Variants:    variants,
			Tags:        tags,
		})
		if err != nil {
			httpapi.Error(c, err)
			return
		}

		httpapi.Respond(c, http.StatusCreated, "Product created", product)
	}
}
