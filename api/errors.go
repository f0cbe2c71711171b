package api

import (
	"errors"

	"dompet/calc"
	"dompet/repository"
	"dompet/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// 页面提示文案
const (
	msgLoginRequired    = "Silakan masuk terlebih dahulu"
	msgInvalidRequest   = "Data yang dikirim tidak valid"
	msgInvalidMonth     = "Format bulan tidak valid"
	msgEmptyCategory    = "Nama kategori wajib diisi"
	msgDuplicateName    = "Nama kategori sudah ada"
	msgCategoryInUse    = "Kategori tidak dapat dihapus karena masih digunakan"
	msgNoTemplates      = "Tidak ada template untuk diterapkan"
	msgNoCategories     = "Tambahkan kategori terlebih dahulu"
	msgInvalidFormat    = "Format file tidak valid"
	msgNoData           = "Tidak ada data untuk diekspor"
	msgIncomeNotFound   = "Pemasukan tidak ditemukan"
	msgExpenseNotFound  = "Pengeluaran tidak ditemukan"
	msgCategoryNotFound = "Kategori tidak ditemukan"
	msgTemplateNotFound = "Template tidak ditemukan"
)

// respondError 把业务错误映射为状态码与提示
// notFound 为资源不存在时的提示，fallback 为内部错误时的提示
func respondError(c *gin.Context, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNoUser):
		Unauthorized(c, msgLoginRequired)
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, notFound)
	case errors.Is(err, service.ErrEmptyName):
		BadRequest(c, msgEmptyCategory)
	case errors.Is(err, service.ErrDuplicateCategory):
		BadRequest(c, msgDuplicateName)
	case errors.Is(err, service.ErrCategoryInUse):
		Conflict(c, msgCategoryInUse)
	case errors.Is(err, service.ErrNoTemplates):
		BadRequest(c, msgNoTemplates)
	case errors.Is(err, service.ErrNoCategories):
		BadRequest(c, msgNoCategories)
	case errors.Is(err, service.ErrInvalidFormat):
		BadRequest(c, msgInvalidFormat)
	case errors.Is(err, service.ErrNoData):
		BadRequest(c, msgNoData)
	case errors.Is(err, calc.ErrInvalidMonthKey):
		BadRequest(c, msgInvalidMonth)
	case errors.Is(err, service.ErrInvalidInput):
		BadRequest(c, msgInvalidRequest)
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)
		message := fallback
		if detail := SafeErrorMessage(err, ""); detail != "" {
			message += ": " + detail
		}
		InternalError(c, message)
	}
}
