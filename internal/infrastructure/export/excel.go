// Package export writes admin reports as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/secureshop/backend/internal/domain/report"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the analytics workbook
const (
	SheetOverview    = "Overview"
	SheetOrders      = "Orders"
	SheetTopProducts = "Top products"
	SheetUsers       = "Users"
)

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const vndFormat = `#,##0 "₫"`

// ExcelWriter renders report workbooks with excelize
type ExcelWriter struct{}

// NewExcelWriter creates an ExcelWriter
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// Render builds the workbook and returns the xlsx bytes
func (w *ExcelWriter) Render(wb *report.Workbook) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, wb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write builds the workbook and writes it to out
func (w *ExcelWriter) Write(out io.Writer, wb *report.Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetOrders, SheetTopProducts, SheetUsers} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	steps := []func(*excelize.File, *report.Workbook, sheetStyles) error{
		writeOverview, writeOrders, writeTopProducts, writeUsers,
	}
	for _, step := range steps {
		if err := step(f, wb, styles); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type sheetStyles struct {
	header int
	money  int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1F4E79"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("failed to create header style: %w", err)
	}
	format := vndFormat
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("failed to create money style: %w", err)
	}
	return sheetStyles{header: header, money: money}, nil
}

// writeTable writes a header row and data rows, styles the header, freezes
// it and sizes the columns.
func writeTable(f *excelize.File, sheet string, st sheetStyles, headers []string, widths []float64, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", last+"1", st.header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// styleMoney applies the VND format to column col for the data rows
func styleMoney(f *excelize.File, sheet, col string, rows int, st sheetStyles) error {
	if rows == 0 {
		return nil
	}
	return f.SetCellStyle(sheet, col+"2", fmt.Sprintf("%s%d", col, rows+1), st.money)
}

func amount(m valueobject.Money) float64 {
	return m.Float64()
}

func writeOverview(f *excelize.File, wb *report.Workbook, st sheetStyles) error {
	o := wb.Overview
	rate, _ := o.ConversionRate.Float64()
	rows := [][]any{
		{"Kỳ báo cáo", fmt.Sprintf("%s → %s", o.Period.From.Format("02/01/2006"), o.Period.To.Format("02/01/2006"))},
		{"Tổng doanh thu", amount(o.TotalRevenue)},
		{"Tổng đơn hàng", o.TotalOrders},
		{"Đơn chờ xử lý", o.PendingOrders},
		{"Đơn hoàn thành", o.CompletedOrders},
		{"Đơn đã hủy", o.CancelledOrders},
		{"Giá trị đơn trung bình", amount(o.AverageOrderValue)},
		{"Tổng sản phẩm", o.TotalProducts},
		{"Sản phẩm còn hàng", o.ProductsInStock},
		{"Sản phẩm hết hàng", o.ProductsOutOfStock},
		{"Tổng người dùng", o.TotalUsers},
		{"Người dùng hoạt động", o.ActiveUsers},
		{"Tỷ lệ chuyển đổi (%)", rate},
	}
	if err := writeTable(f, SheetOverview, st, []string{"Chỉ số", "Giá trị"}, []float64{28, 30}, rows); err != nil {
		return err
	}
	for _, cell := range []string{"B3", "B8"} {
		if err := f.SetCellStyle(SheetOverview, cell, cell, st.money); err != nil {
			return err
		}
	}
	return nil
}

func writeOrders(f *excelize.File, wb *report.Workbook, st sheetStyles) error {
	rows := make([][]any, 0, len(wb.Orders))
	for _, o := range wb.Orders {
		rows = append(rows, []any{o.ID, o.Customer, o.Email, o.CreatedAt, amount(o.Total), o.Status, o.PaymentStatus})
	}
	headers := []string{"Mã đơn", "Khách hàng", "Email", "Ngày đặt", "Tổng tiền", "Trạng thái", "Thanh toán"}
	if err := writeTable(f, SheetOrders, st, headers, []float64{38, 24, 28, 18, 16, 22, 14}, rows); err != nil {
		return err
	}
	return styleMoney(f, SheetOrders, "E", len(rows), st)
}

func writeTopProducts(f *excelize.File, wb *report.Workbook, st sheetStyles) error {
	rows := make([][]any, 0, len(wb.TopProducts))
	for _, p := range wb.TopProducts {
		rating, _ := p.Rating.Float64()
		stock := "Hết hàng"
		if p.InStock {
			stock = "Còn hàng"
		}
		rows = append(rows, []any{p.Rank, p.Name, p.SKU, amount(p.Price), rating, p.ReviewCount, stock})
	}
	headers := []string{"Hạng", "Tên sản phẩm", "SKU", "Giá", "Đánh giá", "Số đánh giá", "Tồn kho"}
	if err := writeTable(f, SheetTopProducts, st, headers, []float64{8, 40, 18, 16, 10, 12, 12}, rows); err != nil {
		return err
	}
	return styleMoney(f, SheetTopProducts, "D", len(rows), st)
}

func writeUsers(f *excelize.File, wb *report.Workbook, st sheetStyles) error {
	rows := make([][]any, 0, len(wb.Users))
	for _, u := range wb.Users {
		rows = append(rows, []any{u.Name, u.Email, u.Phone, u.Role, u.Status})
	}
	headers := []string{"Họ tên", "Email", "Số điện thoại", "Vai trò", "Trạng thái"}
	return writeTable(f, SheetUsers, st, headers, []float64{26, 30, 16, 10, 12}, rows)
}
