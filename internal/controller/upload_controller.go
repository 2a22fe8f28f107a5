package controller

import (
	"io"
	"qurio_backend/internal/service"
	"qurio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	StorageService *service.StorageService
}

func NewUploadController(storageService *service.StorageService) *UploadController {
	return &UploadController{StorageService: storageService}
}

// UploadImage godoc
// @Summary 上传图片
// @Description 上传题目或选项配图，仅接受 2MB 以内的图片文件
// @Tags 上传
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   image formData file true "图片文件"
// @Param   target formData string false "用途 (questions 或 options)" Enums(questions, options)
// @Success 201 {object} util.Response{data=object} "上传成功"
// @Failure 400 {object} util.Response "文件过大或类型不符"
// @Router /api/uploads/images [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "File gambar wajib diunggah.")
		return
	}

	if file.Size > util.MaxImageSize {
		util.BadRequest(ctx, "Ukuran file maksimal 2MB.")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil || !util.IsImage(mimeType) {
		util.BadRequest(ctx, "File harus berupa gambar.")
		return
	}

	// MIME 嗅探消耗了前 512 字节，上传前回到文件开头
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	target := ctx.PostForm("target")
	if target != util.UploadDirOptions {
		target = util.UploadDirQuizzes
	}

	filename := target + "/" + util.RandomFilename("image", file.Filename)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, "Gambar berhasil diunggah.", gin.H{"url": url})
}
