package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"dompet/calc"
	"dompet/models"
	"dompet/repository"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// 工作簿布局
const (
	SheetTransactions = "Ringkasan Keuangan"
	SheetBudget       = "Budget"

	TypeIncome  = "Pemasukan"
	TypeExpense = "Pengeluaran"

	dateNumFmt   = "dd/mm/yyyy"
	amountNumFmt = "#,##0"
)

type sheetColumn struct {
	header string
	width  float64
}

var transactionColumns = []sheetColumn{
	{"Tanggal", 15},
	{"Jenis", 12},
	{"Kategori/Sumber", 25},
	{"Jumlah", 18},
	{"Keterangan", 40},
	{"Status", 15},
}

var budgetColumns = []sheetColumn{
	{"Kategori", 28},
	{"Limit", 18},
	{"Pengeluaran Aktual", 22},
	{"Pengeluaran Rencana", 22},
	{"Status", 20},
	{"Sisa", 18},
}

// TransactionRow 交易表的一行
type TransactionRow struct {
	Date        time.Time `csv:"-"`
	DateText    string    `csv:"Tanggal"`
	Type        string    `csv:"Jenis"`
	Category    string    `csv:"Kategori/Sumber"`
	Amount      float64   `csv:"Jumlah"`
	Description string    `csv:"Keterangan"`
	Status      string    `csv:"Status"`
}

// BudgetRow 预算表的一行，Remaining 为 nil 表示无上限
type BudgetRow struct {
	Category  string
	Limit     float64
	Actual    float64
	Planned   float64
	Status    string
	Remaining *float64
}

// Workbook 工作簿内容
type Workbook struct {
	Transactions []TransactionRow
	Budgets      []BudgetRow
}

// ExportDocument JSON 导出格式，与导入格式一致
type ExportDocument struct {
	Month      string             `json:"month"`
	ExportedAt time.Time          `json:"exportedAt"`
	Data       models.MonthRecord `json:"data"`
	Categories []models.Category  `json:"categories"`
	Templates  []models.Template  `json:"templates"`
}

// TransactionRows 先收入后支出
func TransactionRows(record models.MonthRecord) []TransactionRow {
	rows := make([]TransactionRow, 0, len(record.Incomes)+len(record.Expenses))
	for _, in := range record.Incomes {
		source := in.Source
		if source == "" {
			source = "-"
		}
		rows = append(rows, TransactionRow{
			Date:        in.Date,
			DateText:    calc.FormatShortDate(in.Date),
			Type:        TypeIncome,
			Category:    source,
			Amount:      calc.NormalizeAmount(in.Amount),
			Description: in.Description,
		})
	}
	for _, e := range record.Expenses {
		status := e.Status
		if status == "" {
			status = models.ExpenseStatusPlanned
		}
		rows = append(rows, TransactionRow{
			Date:        e.Date,
			DateText:    calc.FormatShortDate(e.Date),
			Type:        TypeExpense,
			Category:    e.Category,
			Amount:      calc.NormalizeAmount(e.Amount),
			Description: e.Description,
			Status:      status,
		})
	}
	return rows
}

// BudgetRows 有上限或有支出的类别
func BudgetRows(items []calc.BudgetItem) []BudgetRow {
	rows := make([]BudgetRow, 0, len(items))
	for _, item := range items {
		if item.Limit <= 0 && item.ActualSpent <= 0 && item.PlannedSpent <= 0 {
			continue
		}
		row := BudgetRow{
			Category: item.Name,
			Limit:    item.Limit,
			Actual:   item.ActualSpent,
			Planned:  item.PlannedSpent,
			Status:   item.StatusLabel(),
		}
		if item.Limit > 0 {
			remaining := item.Remaining
			row.Remaining = &remaining
		}
		rows = append(rows, row)
	}
	return rows
}

func writeHeader(f *excelize.File, sheet string, cols []sheetColumn, style int) error {
	for i, col := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return err
		}
		cell := name + "1"
		if err := f.SetCellValue(sheet, cell, col.header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// BuildWorkbook 生成两张表的 xlsx
func BuildWorkbook(record models.MonthRecord, categories []models.Category, warnPercent float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetTransactions)
	if _, err := f.NewSheet(SheetBudget); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"0B57D0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	dateFmt, amountFmt := dateNumFmt, amountNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return nil, err
	}

	// 交易表
	if err := writeHeader(f, SheetTransactions, transactionColumns, headerStyle); err != nil {
		return nil, err
	}
	rows := TransactionRows(record)
	for i, r := range rows {
		if err := setRow(f, SheetTransactions, i+2, []any{wallClock(r.Date), r.Type, r.Category, r.Amount, r.Description, r.Status}); err != nil {
			return nil, err
		}
	}
	if n := len(rows) + 1; n > 1 {
		if err := f.SetCellStyle(SheetTransactions, "A2", fmt.Sprintf("A%d", n), dateStyle); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetTransactions, "D2", fmt.Sprintf("D%d", n), amountStyle); err != nil {
			return nil, err
		}
	}

	// 预算表
	if err := writeHeader(f, SheetBudget, budgetColumns, headerStyle); err != nil {
		return nil, err
	}
	budgets := BudgetRows(calc.BudgetProgress(categories, record.Expenses, record.Budgets, warnPercent))
	for i, b := range budgets {
		var remaining any
		if b.Remaining != nil {
			remaining = *b.Remaining
		}
		if err := setRow(f, SheetBudget, i+2, []any{b.Category, b.Limit, b.Actual, b.Planned, b.Status, remaining}); err != nil {
			return nil, err
		}
	}
	if n := len(budgets) + 1; n > 1 {
		for _, col := range []string{"B", "C", "D", "F"} {
			if err := f.SetCellStyle(SheetBudget, col+"2", fmt.Sprintf("%s%d", col, n), amountStyle); err != nil {
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("生成工作簿失败: %w", err)
	}
	return buf.Bytes(), nil
}

// wallClock 以 UTC 表示本地时刻，单元格日期与界面一致
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func rawNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// ReadWorkbook 读回 BuildWorkbook 生成的工作簿
func ReadWorkbook(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Workbook{}, err
	}
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}
	var out Workbook

	rows, err := f.GetRows(SheetTransactions, raw)
	if err != nil {
		return Workbook{}, err
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		tr := TransactionRow{
			Type:        cellAt(row, 1),
			Category:    cellAt(row, 2),
			Amount:      rawNumber(cellAt(row, 3)),
			Description: cellAt(row, 4),
			Status:      cellAt(row, 5),
		}
		if serial := rawNumber(cellAt(row, 0)); serial > 0 {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				tr.Date = t
				tr.DateText = calc.FormatShortDate(t)
			}
		}
		out.Transactions = append(out.Transactions, tr)
	}

	rows, err = f.GetRows(SheetBudget, raw)
	if err != nil {
		return Workbook{}, err
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		b := BudgetRow{
			Category: cellAt(row, 0),
			Limit:    rawNumber(cellAt(row, 1)),
			Actual:   rawNumber(cellAt(row, 2)),
			Planned:  rawNumber(cellAt(row, 3)),
			Status:   cellAt(row, 4),
		}
		if s := strings.TrimSpace(cellAt(row, 5)); s != "" {
			v := rawNumber(s)
			b.Remaining = &v
		}
		out.Budgets = append(out.Budgets, b)
	}
	return out, nil
}

// BuildCSV 交易表的 CSV，带 BOM 以便 Excel 正确识别 UTF-8
func BuildCSV(record models.MonthRecord) ([]byte, error) {
	rows := TransactionRows(record)
	buf := new(bytes.Buffer)
	buf.WriteString("\xEF\xBB\xBF")
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csv.NewWriter(buf))); err != nil {
		return nil, fmt.Errorf("生成 CSV 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename 导出文件名，如 ringkasan-keuangan-2025-10-18.xlsx
func ExportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("ringkasan-keuangan-%s.%s", now.Format("2006-01-02"), ext)
}

// exportSnapshot 读取导出所需的数据
func (w *Workspace) exportSnapshot(ctx context.Context, monthKey string) (string, models.MonthRecord, AppState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureLoadedLocked(ctx); err != nil {
		return "", models.MonthRecord{}, AppState{}, err
	}
	key, err := w.resolveKeyLocked(monthKey)
	if err != nil {
		return "", models.MonthRecord{}, AppState{}, err
	}
	m, err := w.f.loadMonth(ctx, w.uid, key)
	if err != nil {
		return "", models.MonthRecord{}, AppState{}, err
	}
	return key, m.record, w.state.Clone(), nil
}

// hasEntries 至少有一条收入或支出
func hasEntries(record models.MonthRecord) bool {
	return len(record.Incomes) > 0 || len(record.Expenses) > 0
}

// ExportWorkbook 导出月份为 xlsx，返回内容与文件名
func (w *Workspace) ExportWorkbook(ctx context.Context, monthKey string) ([]byte, string, error) {
	_, record, st, err := w.exportSnapshot(ctx, monthKey)
	if err != nil {
		return nil, "", err
	}
	if !hasEntries(record) {
		return nil, "", ErrNoData
	}
	data, err := BuildWorkbook(record, st.categories, w.f.warnPercent)
	if err != nil {
		return nil, "", err
	}
	return data, ExportFilename(w.f.now(), "xlsx"), nil
}

// ExportCSV 导出月份交易为 CSV
func (w *Workspace) ExportCSV(ctx context.Context, monthKey string) ([]byte, string, error) {
	_, record, _, err := w.exportSnapshot(ctx, monthKey)
	if err != nil {
		return nil, "", err
	}
	if !hasEntries(record) {
		return nil, "", ErrNoData
	}
	data, err := BuildCSV(record)
	if err != nil {
		return nil, "", err
	}
	return data, ExportFilename(w.f.now(), "csv"), nil
}

// ExportJSON 导出月份、类别与模板，可直接再次导入
func (w *Workspace) ExportJSON(ctx context.Context, monthKey string) (ExportDocument, error) {
	key, record, st, err := w.exportSnapshot(ctx, monthKey)
	if err != nil {
		return ExportDocument{}, err
	}
	return ExportDocument{
		Month:      key,
		ExportedAt: w.f.now(),
		Data:       record,
		Categories: st.categories,
		Templates:  st.templates,
	}, nil
}

func isJSONArray(b json.RawMessage) bool {
	s := bytes.TrimSpace(b)
	return len(s) > 0 && s[0] == '['
}

// Import 导入 {data, categories, templates}：
// 自定义类别与内置类别合并，给出模板时整体替换，当前月份被覆盖
func (w *Workspace) Import(ctx context.Context, monthKey string, payload []byte) (AppState, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil || top == nil {
		return AppState{}, ErrInvalidFormat
	}
	data, ok := top["data"]
	if !ok || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return AppState{}, ErrInvalidFormat
	}
	now := w.f.now()
	record, err := repository.DecodeMonth(data, now)
	if err != nil {
		return AppState{}, ErrInvalidFormat
	}
	record.Budgets = calc.SanitizeBudgets(record.Budgets)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureLoadedLocked(ctx); err != nil {
		return AppState{}, err
	}

	side := &sideDocs{}
	if raw, ok := top["categories"]; ok && isJSONArray(raw) {
		categories := models.DefaultCategories()
		for _, c := range repository.NormalizeCategories(raw) {
			if c.IsDefault || findCategory(categories, c.ID) >= 0 {
				continue
			}
			categories = append(categories, c)
		}
		side.categories = categories
	}
	if raw, ok := top["templates"]; ok && isJSONArray(raw) {
		side.templates = append([]models.Template{}, repository.NormalizeTemplates(raw)...)
	}

	return w.updateMonthWithLocked(ctx, monthKey, side, func(draft *models.MonthRecord, _ *sideDocs) error {
		*draft = record
		return nil
	})
}
