package payment

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	paymentapp "github.com/secureshop/backend/internal/application/payment"
	"github.com/secureshop/backend/internal/infrastructure/config"
)

const (
	vnpayTimeLayout    = "20060102150405"
	vnpayTimezone      = "Asia/Ho_Chi_Minh"
	vnpayOrderIDMarker = "OrderID:"

	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"
)

var _ paymentapp.Gateway = (*VNPayAdapter)(nil)

// VNPayAdapter signs payment URLs and verifies VNPay return and IPN messages
type VNPayAdapter struct {
	config   config.VNPayConfig
	location *time.Location
	now      func() time.Time
}

// NewVNPayAdapter creates a VNPay adapter
func NewVNPayAdapter(cfg config.VNPayConfig) (*VNPayAdapter, error) {
	if cfg.PaymentURL == "" {
		return nil, errors.New("vnpay payment url is required")
	}
	loc, err := time.LoadLocation(vnpayTimezone)
	if err != nil {
		// Minimal containers may lack tzdata; Vietnam has no DST.
		loc = time.FixedZone("ICT", 7*60*60)
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 15 * time.Minute
	}
	return &VNPayAdapter{config: cfg, location: loc, now: time.Now}, nil
}

// NewTxnRef returns the first 8 hex chars of the order id followed by 8
// random digits.
func (a *VNPayAdapter) NewTxnRef(orderID uuid.UUID) string {
	prefix := strings.ReplaceAll(orderID.String(), "-", "")[:8]
	var b strings.Builder
	b.WriteString(prefix)
	for range 8 {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String()
}

// PaymentURL builds the signed pay URL
func (a *VNPayAdapter) PaymentURL(req paymentapp.GatewayRequest) (string, error) {
	if a.config.TmnCode == "" || a.config.HashSecret == "" {
		return "", errors.New("vnpay is not configured")
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("invalid vnpay amount %d", req.Amount)
	}
	if req.TxnRef == "" {
		return "", errors.New("vnpay txn ref is required")
	}

	created := req.CreatedAt
	if created.IsZero() {
		created = a.now()
	}
	created = created.In(a.location)

	locale := req.Locale
	if locale == "" {
		locale = a.config.Locale
	}
	ip := req.ClientIP
	if ip == "" {
		ip = "127.0.0.1"
	}

	params := map[string]string{
		"vnp_Version":    a.config.Version,
		"vnp_Command":    a.config.Command,
		"vnp_TmnCode":    a.config.TmnCode,
		"vnp_Amount":     strconv.FormatInt(req.Amount, 10),
		"vnp_CurrCode":   a.config.CurrCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  FormatOrderInfo(req.OrderInfo, req.OrderID),
		"vnp_OrderType":  a.config.OrderType,
		"vnp_Locale":     locale,
		"vnp_ReturnUrl":  a.config.ReturnURL,
		"vnp_IpAddr":     ip,
		"vnp_CreateDate": created.Format(vnpayTimeLayout),
		"vnp_ExpireDate": created.Add(a.config.Expiry).Format(vnpayTimeLayout),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	query := canonicalQuery(params)
	return a.config.PaymentURL + "?" + query + "&" + paramSecureHash + "=" + a.sign(query), nil
}

// VerifySignature recomputes the hash over every vnp_ field except the hash
// itself and compares it in constant time.
func (a *VNPayAdapter) VerifySignature(params map[string]string) bool {
	received := params[paramSecureHash]
	if received == "" || a.config.HashSecret == "" {
		return false
	}
	fields := make(map[string]string, len(params))
	for k, v := range params {
		if k == paramSecureHash || k == paramSecureHashType || !strings.HasPrefix(k, "vnp_") {
			continue
		}
		fields[k] = v
	}
	expected := a.sign(canonicalQuery(fields))
	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected))
}

// ParseResult verifies and decodes a return or IPN message
func (a *VNPayAdapter) ParseResult(params map[string]string) (*paymentapp.GatewayResult, error) {
	if !a.VerifySignature(params) {
		return nil, paymentapp.ErrInvalidSignature
	}

	raw := make(map[string]string, len(params))
	for k, v := range params {
		if k != paramSecureHash && k != paramSecureHashType {
			raw[k] = v
		}
	}

	res := &paymentapp.GatewayResult{
		TxnRef:            params["vnp_TxnRef"],
		ResponseCode:      params["vnp_ResponseCode"],
		TransactionStatus: params["vnp_TransactionStatus"],
		TransactionNo:     params["vnp_TransactionNo"],
		BankCode:          params["vnp_BankCode"],
		BankTranNo:        params["vnp_BankTranNo"],
		CardType:          params["vnp_CardType"],
		OrderInfo:         params["vnp_OrderInfo"],
		PayDate:           params["vnp_PayDate"],
		Raw:               raw,
	}
	if amt := params["vnp_Amount"]; amt != "" {
		n, err := strconv.ParseInt(amt, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vnp_Amount %q: %w", amt, err)
		}
		res.Amount = n
	}
	if id, ok := OrderIDFromInfo(res.OrderInfo); ok {
		res.OrderID = id
	}
	res.PaidAt = a.now()
	if res.PayDate != "" {
		if t, err := time.ParseInLocation(vnpayTimeLayout, res.PayDate, a.location); err == nil {
			res.PaidAt = t
		}
	}
	return res, nil
}

func (a *VNPayAdapter) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(a.config.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// FormatOrderInfo appends the order id marker the IPN handler looks up
func FormatOrderInfo(info string, orderID uuid.UUID) string {
	info = strings.TrimSpace(info)
	if info == "" {
		info = "Thanh toan don hang"
	}
	return info + " - " + vnpayOrderIDMarker + " " + orderID.String()
}

// OrderIDFromInfo extracts the order id written by FormatOrderInfo
func OrderIDFromInfo(info string) (uuid.UUID, bool) {
	_, after, found := strings.Cut(info, vnpayOrderIDMarker)
	if !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(after))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// canonicalQuery sorts keys and url-encodes values, skipping empty ones.
// The same string is both the query and the signed payload.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = url.QueryEscape(k) + "=" + url.QueryEscape(params[k])
	}
	return strings.Join(parts, "&")
}
