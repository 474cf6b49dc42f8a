package midtrans

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/utils"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

var EnabledPayments = []snap.SnapPaymentType{
	"credit_card",
	"bca_va",
	"bri_va",
	"mandiri_va",
	"permata_va",
	"gopay",
	"gopaypaylater",
	"shopeepay",
	"qris",
	"danamon_online",
	"bca_klikpay",
	"bca_klikbca",
}

type (
	// MidtransGateway is the payment gateway used by the subscription service.
	MidtransGateway interface {
		CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error)
		CheckTransaction(ctx context.Context, orderID string) (domain.TransactionStatus, error)
		CancelTransaction(ctx context.Context, orderID string) error
		VerifySignature(notification domain.MidtransNotification) bool
	}

	SnapClient interface {
		CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
	}

	CoreClient interface {
		CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
		Cancel(orderID string) *midtrans.Error
	}

	coreClient struct {
		client coreapi.Client
	}

	midtransGateway struct {
		snap      SnapClient
		core      CoreClient
		serverKey string
		finishURL string
	}
)

func (c *coreClient) CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	return c.client.CheckTransaction(orderID)
}

func (c *coreClient) Cancel(orderID string) *midtrans.Error {
	_, err := c.client.CancelTransaction(orderID)
	return err
}

func NewMidtransGateway() MidtransGateway {
	cfg := utils.GetAppConfig()

	env := midtrans.Sandbox
	if cfg.IsProd {
		env = midtrans.Production
	}
	if cfg.ServerKey == "" {
		log.Warn("midtrans SERVER_KEY is empty, payment requests will be rejected")
	}

	var s snap.Client
	s.New(cfg.ServerKey, env)

	core := &coreClient{}
	core.client.New(cfg.ServerKey, env)

	return NewMidtransGatewayWithClients(&s, core, cfg.ServerKey, cfg.FrontendURL)
}

func NewMidtransGatewayWithClients(snapClient SnapClient, core CoreClient, serverKey string, frontendURL string) MidtransGateway {
	return &midtransGateway{
		snap:      snapClient,
		core:      core,
		serverKey: serverKey,
		finishURL: strings.TrimRight(frontendURL, "/") + "/subscription/callback",
	}
}

func (g *midtransGateway) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error) {
	name := req.Name
	if name == "" {
		name = "User"
	}

	items := []midtrans.ItemDetails{
		{
			ID:    req.PlanType,
			Name:  fmt.Sprintf("Pro Chef %s", planLabel(req.PlanType)),
			Price: req.Amount,
			Qty:   1,
		},
	}

	res, merr := g.snap.CreateTransaction(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		Items: &items,
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: req.Email,
			Phone: req.Phone,
		},
		EnabledPayments: EnabledPayments,
		Callbacks: &snap.Callbacks{
			Finish: g.finishURL,
		},
	})
	if merr != nil {
		return domain.CheckoutSession{}, domain.Wrap(domain.KindPaymentGateway, domain.ErrCreatePaymentTransaction.Message, merr)
	}
	if res == nil || res.Token == "" {
		return domain.CheckoutSession{}, domain.ErrCreatePaymentTransaction
	}

	return domain.CheckoutSession{
		Token:       res.Token,
		RedirectURL: res.RedirectURL,
	}, nil
}

func (g *midtransGateway) CheckTransaction(ctx context.Context, orderID string) (domain.TransactionStatus, error) {
	res, merr := g.core.CheckTransaction(orderID)
	if merr != nil {
		return domain.TransactionStatus{}, domain.Wrap(domain.KindPaymentGateway, domain.ErrCheckTransactionStatus.Message, merr)
	}
	if res == nil {
		return domain.TransactionStatus{}, domain.ErrCheckTransactionStatus
	}

	return domain.TransactionStatus{
		OrderID:           res.OrderID,
		TransactionID:     res.TransactionID,
		TransactionStatus: res.TransactionStatus,
		FraudStatus:       res.FraudStatus,
		PaymentType:       res.PaymentType,
		GrossAmount:       res.GrossAmount,
		StatusCode:        res.StatusCode,
		StatusMessage:     res.StatusMessage,
	}, nil
}

func (g *midtransGateway) CancelTransaction(ctx context.Context, orderID string) error {
	if merr := g.core.Cancel(orderID); merr != nil {
		return domain.Wrap(domain.KindPaymentGateway, "Failed to cancel payment transaction", merr)
	}
	return nil
}

// VerifySignature checks signature_key = sha512(order_id + status_code + gross_amount + server_key).
func (g *midtransGateway) VerifySignature(n domain.MidtransNotification) bool {
	if n.SignatureKey == "" || g.serverKey == "" {
		return false
	}
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, g.serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(n.SignatureKey))) == 1
}

func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func planLabel(planType string) string {
	switch planType {
	case domain.PlanMonthly:
		return "Monthly"
	case domain.PlanYearly:
		return "Yearly"
	default:
		return planType
	}
}
