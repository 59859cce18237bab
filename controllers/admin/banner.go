package adminController

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/Pushparaj13811/cladily-api/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// POST /admin/banners
func UploadBanner(db *gorm.DB, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Banner image is required", nil)
			return
		}

		src, err := file.Open()
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Failed to open banner image", nil)
			return
		}
		defer src.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		url, err := blobs.Upload(ctx, file.Filename, src)
		if err != nil {
			httpapi.Respond(c, http.StatusBadGateway, "Failed to store banner image", nil)
			return
		}

		banner := models.Banner{
			Title:    c.PostForm("title"),
			ImageURL: url,
		}
		if err := db.Create(&banner).Error; err != nil {
			if delErr := blobs.Delete(context.Background(), url); delErr != nil {
				log.Printf("banner image cleanup failed for %s: %v", url, delErr)
			}
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to save banner", nil)
			return
		}
		httpapi.Respond(c, http.StatusCreated, "Banner uploaded", banner)
	}
}

// GET /banners
func GetBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		if err := db.Order("created_at desc").Find(&banners).Error; err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to fetch banners", nil)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Banners fetched", banners)
	}
}

// DELETE /admin/banners/:id
func DeleteBanner(db *gorm.DB, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banner models.Banner
		if err := db.First(&banner, "id = ?", c.Param("id")).Error; err != nil {
			httpapi.Respond(c, http.StatusNotFound, "Banner not found", nil)
			return
		}
		if err := db.Delete(&banner).Error; err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to delete banner", nil)
			return
		}
		if err := blobs.Delete(context.Background(), banner.ImageURL); err != nil {
			log.Printf("banner image cleanup failed for %s: %v", banner.ImageURL, err)
		}
		httpapi.Respond(c, http.StatusOK, "Banner deleted", nil)
	}
}
