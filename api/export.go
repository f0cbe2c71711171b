package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxImportSize 导入文件大小上限
const maxImportSize = 5 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// attachment 以附件形式返回文件
func attachment(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(data)))
	c.Data(http.StatusOK, contentType, data)
}

// ExportExcel 导出月份为 Excel
// @Summary 导出 Excel
// @Description 两个工作表：Ringkasan Keuangan（收入在前，支出在后）与 Budget
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {file} file "xlsx 文件"
// @Failure 400 {object} Response "没有可导出的数据"
// @Router /api/v1/export/excel [get]
func (h *FinanceHandler) ExportExcel(c *gin.Context) {
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	data, filename, err := ws.ExportWorkbook(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "", "Gagal mengekspor data")
		return
	}
	attachment(c, xlsxContentType, filename, data)
}

// ExportCSV 导出月份交易为 CSV
// @Summary 导出 CSV
// @Description 与 Excel 第一个工作表相同的列，带 UTF-8 BOM
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "没有可导出的数据"
// @Router /api/v1/export/csv [get]
func (h *FinanceHandler) ExportCSV(c *gin.Context) {
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	data, filename, err := ws.ExportCSV(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "", "Gagal mengekspor data")
		return
	}
	attachment(c, "text/csv; charset=utf-8", filename, data)
}

// ExportJSON 导出 JSON 备份
// @Summary 导出 JSON 备份
// @Description {month, exportedAt, data, categories, templates}，可直接导入
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Success 200 {object} service.ExportDocument "备份内容"
// @Router /api/v1/export/json [get]
func (h *FinanceHandler) ExportJSON(c *gin.Context) {
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	doc, err := ws.ExportJSON(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "", "Gagal mengekspor data")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", "dompet-"+doc.Month+".json"))
	c.JSON(http.StatusOK, doc)
}

// readImportPayload 支持 multipart 的 file 字段或直接的 JSON 请求体
func readImportPayload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImportSize))
	}
	return io.ReadAll(c.Request.Body)
}

// Import 导入 JSON 备份
// @Summary 导入 JSON 备份
// @Description 覆盖当前月份；自定义类别与内置类别合并，给出模板时整体替换
// @Tags 导出
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (YYYY-MM)"
// @Param file formData file false "JSON 文件"
// @Success 200 {object} Response{data=service.Dashboard} "导入成功"
// @Failure 400 {object} Response "格式无效"
// @Router /api/v1/import [post]
func (h *FinanceHandler) Import(c *gin.Context) {
	payload, err := readImportPayload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			TooLarge(c, "Ukuran file terlalu besar")
			return
		}
		BadRequest(c, "Gagal membaca file")
		return
	}
	ws, key, ok := h.prepare(c)
	if !ok {
		return
	}
	st, err := ws.Import(c.Request.Context(), key, payload)
	if err != nil {
		respondError(c, err, "", "Gagal menyimpan data import")
		return
	}
	h.dashboard(c, "Data berhasil diimpor", st)
}
