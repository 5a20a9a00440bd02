package http

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"livestream-backend/domain/model"
	"livestream-backend/usecase"
)

type IVideoHandler interface {
	List(c *gin.Context)
	Search(c *gin.Context)
	Get(c *gin.Context)
	Stream(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	ToggleLike(c *gin.Context)
	ListByOwner(c *gin.Context)
	ListComments(c *gin.Context)
	AddComment(c *gin.Context)
	EditComment(c *gin.Context)
	DeleteComment(c *gin.Context)
	AdvanceStatus(c *gin.Context)
}

type VideoHandler struct {
	videoUsecase   usecase.IVideoUsecase
	socialUsecase  usecase.ISocialUsecase
	catalogUsecase usecase.ICatalogUsecase
}

func NewVideoHandler(
	videoUsecase usecase.IVideoUsecase,
	socialUsecase usecase.ISocialUsecase,
	catalogUsecase usecase.ICatalogUsecase,
) IVideoHandler {
	return &VideoHandler{
		videoUsecase:   videoUsecase,
		socialUsecase:  socialUsecase,
		catalogUsecase: catalogUsecase,
	}
}

func (h *VideoHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	res, err := h.catalogUsecase.List(c.Request.Context(), usecase.ListQuery{
		Page:     page,
		Limit:    limit,
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *VideoHandler) Search(c *gin.Context) {
	res, err := h.catalogUsecase.SearchAll(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *VideoHandler) Get(c *gin.Context) {
	res, err := h.videoUsecase.Get(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *VideoHandler) Stream(c *gin.Context) {
	res, err := h.videoUsecase.ResolveStream(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// formUpload turns one multipart part into the engine's upload shape. The
// caller owns closing the returned file.
func formUpload(fh *multipart.FileHeader) (*model.FileUpload, multipart.File, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, nil, model.NewValidationError("Could not read uploaded file")
	}
	return &model.FileUpload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      file,
	}, file, nil
}

func (h *VideoHandler) Create(c *gin.Context) {
	req := model.ReqIngest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		respondError(c, model.NewValidationError("Video file is required"))
		return
	}
	upload, file, err := formUpload(videoFile)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()
	req.Video = upload

	if thumbFile, err := c.FormFile("thumbnail"); err == nil {
		thumb, tf, err := formUpload(thumbFile)
		if err != nil {
			respondError(c, err)
			return
		}
		defer tf.Close()
		req.Thumbnail = thumb
	}

	res, err := h.videoUsecase.Ingest(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *VideoHandler) Update(c *gin.Context) {
	var req model.ReqUpdateVideo
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, model.NewValidationError("Invalid request body"))
		return
	}
	res, err := h.videoUsecase.UpdateMetadata(c.Request.Context(), c.Param("videoId"), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	if err := h.videoUsecase.Delete(c.Request.Context(), c.Param("videoId"), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

func (h *VideoHandler) ToggleLike(c *gin.Context) {
	res, err := h.socialUsecase.ToggleLike(c.Request.Context(), c.Param("videoId"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *VideoHandler) ListByOwner(c *gin.Context) {
	res, err := h.catalogUsecase.ListByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *VideoHandler) ListComments(c *gin.Context) {
	res, err := h.socialUsecase.Comments(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *VideoHandler) AddComment(c *gin.Context) {
	var req model.ReqComment
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, model.NewValidationError("Comment text required"))
		return
	}
	res, err := h.socialUsecase.AddComment(c.Request.Context(), c.Param("videoId"), currentUserID(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *VideoHandler) EditComment(c *gin.Context) {
	var req model.ReqComment
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, model.NewValidationError("Comment text required"))
		return
	}
	res, err := h.socialUsecase.EditComment(c.Request.Context(), c.Param("videoId"), c.Param("commentId"), currentUserID(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *VideoHandler) DeleteComment(c *gin.Context) {
	res, err := h.socialUsecase.DeleteComment(c.Request.Context(), c.Param("videoId"), c.Param("commentId"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AdvanceStatus is only reachable through the worker-key guard; it moves the
// asset along PENDING -> PROCESSING -> COMPLETED/FAILED.
func (h *VideoHandler) AdvanceStatus(c *gin.Context) {
	var req model.ReqAdvanceStatus
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, model.NewValidationError("Invalid request body"))
		return
	}
	res, err := h.videoUsecase.AdvanceStatus(c.Request.Context(), c.Param("videoId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
