package domain

import (
	"time"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"

	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	// never persisted, see SubscriptionStatus.IsPro
	SubscriptionStatusExpired = "expired"

	MonthlyDurationDays = 30
	YearlyDurationDays  = 365

	DefaultMonthlyPrice int64 = 29000
	DefaultYearlyPrice  int64 = 1000000

	OrderIDPrefix = "PRO-CHEF"
	PlanCurrency  = "IDR"
)

var (
	MessageSuccessGetPlans              = "success get subscription plans"
	MessageSuccessCreateSubscription    = "Subscription created successfully. Please complete payment."
	MessageSuccessGetSubscriptionStatus = "success get subscription status"
	MessageSuccessCancelSubscription    = "Subscription cancelled successfully."
	MessageSuccessCheckTransaction      = "success check transaction status"
	MessageSuccessWebhook               = "Webhook processed successfully."
	MessageNoSubscription               = "No subscription found. Upgrade to Pro Chef for unlimited access!"
	MessageProRequired                  = "Pro Chef subscription required. Upgrade to unlock this feature!"

	MessageFailedCreateSubscription    = "failed to create subscription"
	MessageFailedGetSubscriptionStatus = "failed to get subscription status"
	MessageFailedCancelSubscription    = "failed to cancel subscription"
	MessageFailedCheckTransaction      = "failed to check transaction status"
	MessageFailedWebhook               = "failed to process webhook"
	MessageFailedVerifySubscription    = "failed to verify subscription status"

	ErrInvalidPlanType           = NewError(KindValidation, "Invalid plan type. Choose 'monthly' or 'yearly'.")
	ErrEmailRequired             = NewError(KindValidation, "Email is required for subscription.")
	ErrOrderIDRequired           = NewError(KindValidation, "Order ID is required.")
	ErrActiveSubscriptionExists  = NewError(KindConflict, "You already have an active Pro subscription.")
	ErrSubscriptionNotFound      = NewError(KindNotFound, "Subscription not found")
	ErrInvalidWebhookSignature   = NewError(KindForbidden, "invalid notification signature")
	ErrCreatePaymentTransaction  = NewError(KindPaymentGateway, "Failed to create payment transaction")
	ErrCheckTransactionStatus    = NewError(KindPaymentGateway, "Failed to check transaction status")
	ErrCreateSubscriptionRecord  = NewError(KindInternal, "Failed to create subscription")
	ErrUpdateSubscriptionRecord  = NewError(KindInternal, "Failed to update subscription")
	ErrCancelSubscriptionRecord  = NewError(KindInternal, "Failed to cancel subscription")
	ErrSubscriptionLookupFailure = NewError(KindInternal, "Failed to get subscription status")
)

type (
	CreateSubscriptionRequest struct {
		PlanType string `json:"planType" validate:"required,oneof=monthly yearly"`
		Email    string `json:"email" validate:"omitempty,email"`
		Phone    string `json:"phone" validate:"omitempty"`
		Name     string `json:"name" validate:"omitempty"`
	}

	CreateSubscriptionResponse struct {
		OrderID      string `json:"orderId"`
		PaymentToken string `json:"snapToken"`
		RedirectURL  string `json:"redirectUrl"`
		Price        int64  `json:"price"`
		PlanType     string `json:"planType"`
	}

	CancelSubscriptionRequest struct {
		OrderID string `json:"orderId" validate:"required"`
	}

	// SubscriptionStatus is the entitlement snapshot computed at read time.
	SubscriptionStatus struct {
		IsPro         bool       `json:"isPro"`
		PlanType      *string    `json:"planType"`
		Status        *string    `json:"status"`
		OrderID       *string    `json:"orderId,omitempty"`
		EndDate       *time.Time `json:"endDate"`
		DaysRemaining int        `json:"daysRemaining"`
	}

	SubscriptionPlan struct {
		ID           string   `json:"id"`
		Name         string   `json:"name"`
		Price        int64    `json:"price"`
		Currency     string   `json:"currency"`
		Duration     int      `json:"duration"`
		DurationUnit string   `json:"durationUnit"`
		Features     []string `json:"features"`
		Savings      int      `json:"savings"`
		Popular      bool     `json:"popular,omitempty"`
	}

	SubscriptionPlansResponse struct {
		Plans []SubscriptionPlan `json:"plans"`
	}

	// MidtransNotification is the HTTP notification body posted by Midtrans.
	MidtransNotification struct {
		OrderID           string `json:"order_id"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status"`
		PaymentType       string `json:"payment_type"`
		TransactionID     string `json:"transaction_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
	}

	CheckoutRequest struct {
		OrderID  string
		Amount   int64
		PlanType string
		Email    string
		Phone    string
		Name     string
	}

	CheckoutSession struct {
		Token       string
		RedirectURL string
	}

	// TransactionStatus is the gateway's view of an order, returned as is.
	TransactionStatus struct {
		OrderID           string `json:"order_id"`
		TransactionID     string `json:"transaction_id"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status,omitempty"`
		PaymentType       string `json:"payment_type"`
		GrossAmount       string `json:"gross_amount"`
		StatusCode        string `json:"status_code"`
		StatusMessage     string `json:"status_message"`
	}
)

// NoSubscriptionStatus is the snapshot used when a user never purchased.
func NoSubscriptionStatus() SubscriptionStatus {
	return SubscriptionStatus{}
}

func IsValidPlanType(planType string) bool {
	return planType == PlanMonthly || planType == PlanYearly
}
