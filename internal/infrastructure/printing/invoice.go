package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Seller is printed in the invoice header
type Seller struct {
	Name    string
	Address string
	Hotline string
	Email   string
}

// DefaultSeller is used when no seller is configured
func DefaultSeller() Seller {
	return Seller{
		Name:    "SecureShop",
		Address: "Thành phố Hồ Chí Minh",
		Hotline: "1900 0000",
		Email:   "support@secureshop.vn",
	}
}

var vnPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND formats an amount as "1.250.000 ₫"
func FormatVND(m valueobject.Money) string {
	return vnPrinter.Sprintf("%d ₫", m.Amount().Round(0).IntPart())
}

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"vnd":  FormatVND,
	"date": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	"inc":  func(i int) int { return i + 1 },
	"status": func(s order.Status) string {
		return statusLabels[s]
	},
	"payment": func(m order.PaymentMethod) string {
		return paymentLabels[m]
	},
}).Parse(`<!DOCTYPE html>
<html lang="vi"><head><meta charset="UTF-8"><title>Hóa đơn {{.Number}}</title>
<style>
body{font-family:"Noto Sans","DejaVu Sans",Arial,sans-serif;font-size:12px;color:#222}
h1{font-size:20px;margin:0 0 4px}
table{width:100%;border-collapse:collapse;margin-top:12px}
th,td{border:1px solid #ccc;padding:6px;text-align:left}
th{background:#f3f4f6}
.num{text-align:right}
.muted{color:#666}
.totals td{border:none;padding:3px 6px}
.grand{font-weight:bold;font-size:14px}
</style></head>
<body>
<h1>{{.Seller.Name}}</h1>
<div class="muted">{{.Seller.Address}} · Hotline {{.Seller.Hotline}} · {{.Seller.Email}}</div>
<h2>HÓA ĐƠN BÁN HÀNG</h2>
<div>Mã đơn hàng: <b>{{.Number}}</b></div>
<div>Ngày đặt: {{date .Order.CreatedAt}}</div>
<div>Trạng thái: {{status .Order.Status}}{{if .Order.HasPaid}} · Đã thanh toán{{end}}</div>
<div>Phương thức thanh toán: {{payment .Order.PaymentMethod}}</div>

<h3>Thông tin giao hàng</h3>
<div>{{.Order.Shipping.FullName}} · {{.Order.Shipping.Phone}} · {{.Order.Shipping.Email}}</div>
<div>{{.Order.Shipping.FullAddress}}</div>
{{if .Order.Shipping.Note}}<div class="muted">Ghi chú: {{.Order.Shipping.Note}}</div>{{end}}

<table>
<thead><tr><th>#</th><th>Sản phẩm</th><th>SKU</th><th class="num">Đơn giá</th><th class="num">SL</th><th class="num">Thành tiền</th></tr></thead>
<tbody>
{{range $i, $it := .Order.Items}}<tr><td>{{inc $i}}</td><td>{{$it.Name}}</td><td>{{$it.SKU}}</td><td class="num">{{vnd $it.UnitPrice}}</td><td class="num">{{$it.Quantity}}</td><td class="num">{{vnd $it.LineTotal}}</td></tr>
{{end}}</tbody>
</table>

<table class="totals">
<tr><td class="num">Tạm tính</td><td class="num">{{vnd .Order.Subtotal}}</td></tr>
<tr><td class="num">Giảm giá{{if .Order.CouponCode}} ({{.Order.CouponCode}}){{end}}</td><td class="num">-{{vnd .Order.DiscountTotal}}</td></tr>
<tr><td class="num">Phí vận chuyển</td><td class="num">{{vnd .Order.ShippingFee}}</td></tr>
<tr class="grand"><td class="num">Tổng cộng</td><td class="num">{{vnd .Order.GrandTotal}}</td></tr>
</table>
<p class="muted">Cảm ơn quý khách đã mua sắm tại {{.Seller.Name}}.</p>
</body></html>`))

var statusLabels = map[order.Status]string{
	order.StatusPending:            "Chờ xác nhận",
	order.StatusWaitingForDelivery: "Chờ giao hàng",
	order.StatusInTransit:          "Đang giao",
	order.StatusDelivered:          "Đã giao",
	order.StatusCancelled:          "Đã hủy",
}

var paymentLabels = map[order.PaymentMethod]string{
	order.PaymentCOD:          "Thanh toán khi nhận hàng",
	order.PaymentBankTransfer: "Chuyển khoản ngân hàng",
	order.PaymentEWallet:      "Ví điện tử (VNPay)",
}

// InvoiceRenderer turns an order into a PDF invoice
type InvoiceRenderer struct {
	pdf      PDFRenderer
	seller   Seller
	location *time.Location
}

// NewInvoiceRenderer creates an InvoiceRenderer. Dates print in loc.
func NewInvoiceRenderer(pdf PDFRenderer, seller Seller, loc *time.Location) *InvoiceRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceRenderer{pdf: pdf, seller: seller, location: loc}
}

// InvoiceNumber is the short printed order reference
func InvoiceNumber(o *order.Order) string {
	return fmt.Sprintf("SS-%s", o.ID.String()[:8])
}

// InvoiceHTML renders the invoice document
func (r *InvoiceRenderer) InvoiceHTML(o *order.Order) (string, error) {
	local := *o
	local.CreatedAt = o.CreatedAt.In(r.location)

	var buf bytes.Buffer
	err := invoiceTmpl.Execute(&buf, map[string]any{
		"Seller": r.seller,
		"Order":  &local,
		"Number": InvoiceNumber(o),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render invoice template: %w", err)
	}
	return buf.String(), nil
}

// RenderInvoice renders the order invoice to PDF
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, o *order.Order) ([]byte, error) {
	doc, err := r.InvoiceHTML(o)
	if err != nil {
		return nil, err
	}
	res, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:       doc,
		Title:      "Hóa đơn " + InvoiceNumber(o),
		Paper:      PaperA4,
		Margins:    DefaultMargins(),
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center"><span class="pageNumber"></span>/<span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, err
	}
	return res.PDFData, nil
}
