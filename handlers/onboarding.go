package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/services/session"
)

// SubmitUserInfoHandler stores the personal-details step.
func (hb *HandlerBundle) SubmitUserInfoHandler(c *gin.Context) {
	var input session.UserInfo
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	step, err := hb.Session.SubmitUserInfo(c.Request.Context(), input)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error(), "step": step})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": step})
}

// SubmitVerificationHandler stores the document uploads. Files arrive as
// multipart form parts and stay in memory until registration.
func (hb *HandlerBundle) SubmitVerificationHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form", "details": err.Error()})
		return
	}

	docs := session.DocumentSet{
		ProfilePhoto: readFormDoc(c, form, "profile_photo"),
		Aadhaar:      readFormDoc(c, form, "aadhaar_document"),
		PAN:          readFormDoc(c, form, "pan_document"),
		Degree:       readFormDoc(c, form, "degree_certificate"),
	}
	for _, fh := range form.File["previous_work_images"] {
		if doc := readDoc(c, fh); doc != nil {
			docs.WorkImages = append(docs.WorkImages, *doc)
		}
	}

	step, err := hb.Session.SubmitVerification(c.Request.Context(), docs)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error(), "step": step})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": step})
}

// SubmitServicesHandler stores the service selection.
func (hb *HandlerBundle) SubmitServicesHandler(c *gin.Context) {
	var input struct {
		Services []models.SelectedService `json:"services"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	step, err := hb.Session.SubmitServices(c.Request.Context(), input.Services)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error(), "step": step})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": step})
}

// SubmitAccountVerificationHandler submits the bank details and the full
// registration.
func (hb *HandlerBundle) SubmitAccountVerificationHandler(c *gin.Context) {
	var input session.BankDetails
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	step, err := hb.Session.SubmitAccountVerification(c.Request.Context(), input)
	if err != nil {
		getLogger(c).Warn("registration failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error(), "step": step})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": step})
}

// CatalogCategoriesHandler proxies the services catalogue's top level.
func (hb *HandlerBundle) CatalogCategoriesHandler(c *gin.Context) {
	categories, err := hb.Gateway.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CatalogServicesHandler proxies the bookable services of one category.
func (hb *HandlerBundle) CatalogServicesHandler(c *gin.Context) {
	var input struct {
		CategoryID int64 `form:"category_id"`
	}
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	services, err := hb.Gateway.ListServices(c.Request.Context(), input.CategoryID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func readFormDoc(c *gin.Context, form *multipart.Form, field string) *session.Document {
	files := form.File[field]
	if len(files) == 0 {
		return nil
	}
	return readDoc(c, files[0])
}

func readDoc(c *gin.Context, fh *multipart.FileHeader) *session.Document {
	f, err := fh.Open()
	if err != nil {
		getLogger(c).Warn("upload open failed", zap.String("file", fh.Filename), zap.Error(err))
		return nil
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		getLogger(c).Warn("upload read failed", zap.String("file", fh.Filename), zap.Error(err))
		return nil
	}
	return &session.Document{Filename: fh.Filename, Content: content}
}
