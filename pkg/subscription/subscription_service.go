package subscription

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/entities"
	"NativeRecipe-Backend/internal/metrics"
	"NativeRecipe-Backend/internal/utils/mailing"
	"NativeRecipe-Backend/pkg/midtrans"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const day = 24 * time.Hour

var planFeatures = []string{
	"Unlimited AI Recipe Generation",
	"Access to Premium Recipes",
	"Download Recipe as PDF",
	"Ad-free Experience",
	"Priority Support",
}

type (
	SubscriptionService interface {
		GetPlans() domain.SubscriptionPlansResponse
		CreateSubscription(ctx context.Context, userID string, req domain.CreateSubscriptionRequest) (domain.CreateSubscriptionResponse, error)
		HandleWebhookNotification(ctx context.Context, notification domain.MidtransNotification) error
		GetUserSubscription(ctx context.Context, userID string) (*domain.SubscriptionStatus, error)
		CheckTransactionStatus(ctx context.Context, userID string, orderID string) (domain.TransactionStatus, error)
		CancelSubscription(ctx context.Context, userID string, orderID string) error
	}

	// ProfileLookup resolves contact details when the request omits them.
	ProfileLookup interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	Config struct {
		MonthlyPrice int64
		YearlyPrice  int64
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		gateway                midtrans.MidtransGateway
		profiles               ProfileLookup
		metrics                metrics.SubscriptionMetrics
		mailer                 mailing.Mailer
		config                 Config
		now                    func() time.Time
	}
)

func NewSubscriptionService(
	subscriptionRepository SubscriptionRepository,
	gateway midtrans.MidtransGateway,
	profiles ProfileLookup,
	subscriptionMetrics metrics.SubscriptionMetrics,
	mailer mailing.Mailer,
	config Config,
) SubscriptionService {
	if config.MonthlyPrice <= 0 {
		config.MonthlyPrice = domain.DefaultMonthlyPrice
	}
	if config.YearlyPrice <= 0 {
		config.YearlyPrice = domain.DefaultYearlyPrice
	}

	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		gateway:                gateway,
		profiles:               profiles,
		metrics:                subscriptionMetrics,
		mailer:                 mailer,
		config:                 config,
		now:                    time.Now,
	}
}

func (s *subscriptionService) planTerms(planType string) (int64, int) {
	if planType == domain.PlanYearly {
		return s.config.YearlyPrice, domain.YearlyDurationDays
	}
	return s.config.MonthlyPrice, domain.MonthlyDurationDays
}

func (s *subscriptionService) GetPlans() domain.SubscriptionPlansResponse {
	monthly, yearly := s.config.MonthlyPrice, s.config.YearlyPrice

	savings := int(math.Round(float64(monthly*12-yearly) / float64(monthly*12) * 100))
	if savings < 0 {
		savings = 0
	}

	return domain.SubscriptionPlansResponse{
		Plans: []domain.SubscriptionPlan{
			{
				ID:           domain.PlanMonthly,
				Name:         "Pro Chef Monthly",
				Price:        monthly,
				Currency:     domain.PlanCurrency,
				Duration:     domain.MonthlyDurationDays,
				DurationUnit: "days",
				Features:     planFeatures,
			},
			{
				ID:           domain.PlanYearly,
				Name:         "Pro Chef Yearly",
				Price:        yearly,
				Currency:     domain.PlanCurrency,
				Duration:     domain.YearlyDurationDays,
				DurationUnit: "days",
				Features:     planFeatures,
				Savings:      savings,
				Popular:      true,
			},
		},
	}
}

// NewOrderID returns PRO-CHEF-<8 random hex, upper case>-<epoch ms>.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("%s-%s-%d", domain.OrderIDPrefix, strings.ToUpper(uuid.NewString()[:8]), now.UnixMilli())
}

func (s *subscriptionService) resolveContact(ctx context.Context, userID string, req domain.CreateSubscriptionRequest) (string, string) {
	email, name := strings.TrimSpace(req.Email), strings.TrimSpace(req.Name)
	if (email != "" && name != "") || s.profiles == nil {
		return email, name
	}

	user, err := s.profiles.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnw("failed to look up user profile", "user_id", userID, "error", err)
		}
		return email, name
	}
	if email == "" {
		email = user.Email
	}
	if name == "" {
		name = user.FullName
	}
	return email, name
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, userID string, req domain.CreateSubscriptionRequest) (domain.CreateSubscriptionResponse, error) {
	if !domain.IsValidPlanType(req.PlanType) {
		return domain.CreateSubscriptionResponse{}, domain.ErrInvalidPlanType
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateSubscriptionResponse{}, domain.ErrParseUUID
	}

	email, name := s.resolveContact(ctx, userID, req)
	if email == "" {
		return domain.CreateSubscriptionResponse{}, domain.ErrEmailRequired
	}

	// Advisory only: two concurrent requests can both pass this check.
	existing, err := s.GetUserSubscription(ctx, userID)
	if err != nil {
		return domain.CreateSubscriptionResponse{}, err
	}
	if existing != nil && existing.IsPro {
		return domain.CreateSubscriptionResponse{}, domain.ErrActiveSubscriptionExists.WithData(existing)
	}

	price, durationDays := s.planTerms(req.PlanType)
	startDate := s.now()
	endDate := startDate.Add(time.Duration(durationDays) * day)
	orderID := NewOrderID(startDate)

	subscription := &entities.Subscription{
		ID:        uuid.New(),
		UserID:    userUUID,
		PlanType:  req.PlanType,
		Status:    domain.SubscriptionStatusPending,
		OrderID:   orderID,
		Price:     price,
		StartDate: &startDate,
		EndDate:   &endDate,
	}
	if err := s.subscriptionRepository.CreateSubscription(ctx, subscription); err != nil {
		s.metrics.RecordOrderFailed(req.PlanType, "database")
		return domain.CreateSubscriptionResponse{}, domain.Wrap(domain.KindInternal, domain.ErrCreateSubscriptionRecord.Message, err)
	}

	session, err := s.gateway.CreateCheckout(ctx, domain.CheckoutRequest{
		OrderID:  orderID,
		Amount:   price,
		PlanType: req.PlanType,
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Name:     name,
	})
	if err != nil {
		log.Errorw("failed to create payment transaction", "order_id", orderID, "error", err)
		s.rollbackPending(ctx, orderID)
		s.metrics.RecordOrderFailed(req.PlanType, "gateway")
		if domain.KindOf(err) == domain.KindPaymentGateway {
			return domain.CreateSubscriptionResponse{}, err
		}
		return domain.CreateSubscriptionResponse{}, domain.Wrap(domain.KindPaymentGateway, domain.ErrCreatePaymentTransaction.Message, err)
	}

	s.metrics.RecordOrderCreated(req.PlanType)
	log.Infow("subscription order created", "order_id", orderID, "user_id", userID, "plan_type", req.PlanType)

	return domain.CreateSubscriptionResponse{
		OrderID:      orderID,
		PaymentToken: session.Token,
		RedirectURL:  session.RedirectURL,
		Price:        price,
		PlanType:     req.PlanType,
	}, nil
}

// rollbackPending removes the pending row of a checkout that never started.
// A failure here is logged, the caller still gets the gateway error.
func (s *subscriptionService) rollbackPending(ctx context.Context, orderID string) {
	if err := s.subscriptionRepository.DeleteSubscriptionByOrderID(context.WithoutCancel(ctx), orderID); err != nil {
		log.Errorw("failed to roll back pending subscription", "order_id", orderID, "error", err)
	}
}

// ResolveStatus maps a gateway transaction status onto the internal status.
// Unknown statuses and a capture without fraud acceptance keep current.
func ResolveStatus(current, transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return domain.SubscriptionStatusActive
		}
	case "settlement":
		return domain.SubscriptionStatusActive
	case "pending":
		return domain.SubscriptionStatusPending
	case "deny", "expire", "cancel":
		return domain.SubscriptionStatusCancelled
	case "refund", "chargeback":
		return domain.SubscriptionStatusCancelled
	}
	return current
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (s *subscriptionService) HandleWebhookNotification(ctx context.Context, notification domain.MidtransNotification) error {
	if !s.gateway.VerifySignature(notification) {
		s.metrics.RecordWebhook(metrics.StatusUnknown, metrics.OutcomeRejected)
		log.Warnw("rejected payment notification with invalid signature", "order_id", notification.OrderID)
		return domain.ErrInvalidWebhookSignature
	}

	log.Infow("payment notification received",
		"order_id", notification.OrderID,
		"transaction_status", notification.TransactionStatus,
	)

	subscription, err := s.subscriptionRepository.GetSubscriptionByOrderID(ctx, notification.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.RecordWebhook(metrics.StatusUnknown, metrics.OutcomeNotFound)
			log.Errorw("subscription not found for order", "order_id", notification.OrderID)
			return domain.ErrSubscriptionNotFound
		}
		s.metrics.RecordWebhook(notification.TransactionStatus, metrics.OutcomeError)
		return domain.Wrap(domain.KindInternal, domain.ErrSubscriptionLookupFailure.Message, err)
	}

	// already active rows are never demoted by a notification
	if subscription.Status == domain.SubscriptionStatusActive {
		s.metrics.RecordWebhook(notification.TransactionStatus, metrics.OutcomeDuplicate)
		log.Infow("subscription already active, skipping", "order_id", notification.OrderID)
		return nil
	}

	newStatus := ResolveStatus(subscription.Status, notification.TransactionStatus, notification.FraudStatus)
	now := s.now()

	updates := map[string]any{
		"status":         newStatus,
		"transaction_id": optionalString(notification.TransactionID),
		"payment_method": optionalString(notification.PaymentType),
		"updated_at":     now,
	}
	if newStatus == domain.SubscriptionStatusActive && subscription.StartDate == nil {
		updates["start_date"] = now
	}

	if err := s.subscriptionRepository.UpdateSubscriptionByOrderID(ctx, notification.OrderID, updates); err != nil {
		s.metrics.RecordWebhook(notification.TransactionStatus, metrics.OutcomeError)
		log.Errorw("failed to update subscription status", "order_id", notification.OrderID, "error", err)
		return domain.Wrap(domain.KindInternal, domain.ErrUpdateSubscriptionRecord.Message, err)
	}

	outcome := metrics.OutcomeUnchanged
	if newStatus != subscription.Status {
		outcome = metrics.OutcomeTransitioned
	}
	s.metrics.RecordWebhook(notification.TransactionStatus, outcome)
	log.Infow("subscription updated", "order_id", notification.OrderID, "status", newStatus)

	if newStatus == domain.SubscriptionStatusActive {
		s.sendActivationMail(ctx, subscription)
	}
	return nil
}

func (s *subscriptionService) sendActivationMail(ctx context.Context, subscription *entities.Subscription) {
	if s.mailer == nil || s.profiles == nil {
		return
	}

	user, err := s.profiles.GetUserByID(ctx, subscription.UserID.String())
	if err != nil {
		log.Warnw("failed to load user for activation mail", "order_id", subscription.OrderID, "error", err)
		return
	}

	subject, body, err := mailing.SubscriptionActivatedMail(user.FullName, subscription.PlanType, subscription.OrderID, subscription.EndDate)
	if err != nil {
		log.Warnw("failed to render activation mail", "order_id", subscription.OrderID, "error", err)
		return
	}
	if err := s.mailer.SendMail(user.Email, subject, body); err != nil {
		log.Warnw("failed to send activation mail", "order_id", subscription.OrderID, "error", err)
	}
}

// Snapshot computes entitlement at now. Status alone does not tell whether
// a subscription is usable, the end date must be checked too.
func Snapshot(subscription *entities.Subscription, now time.Time) domain.SubscriptionStatus {
	planType := subscription.PlanType
	status := subscription.Status
	orderID := subscription.OrderID

	isPro := status == domain.SubscriptionStatusActive &&
		subscription.EndDate != nil &&
		subscription.EndDate.After(now)

	daysRemaining := 0
	if isPro {
		daysRemaining = int(math.Ceil(float64(subscription.EndDate.Sub(now)) / float64(day)))
	}

	return domain.SubscriptionStatus{
		IsPro:         isPro,
		PlanType:      &planType,
		Status:        &status,
		OrderID:       &orderID,
		EndDate:       subscription.EndDate,
		DaysRemaining: daysRemaining,
	}
}

func (s *subscriptionService) GetUserSubscription(ctx context.Context, userID string) (*domain.SubscriptionStatus, error) {
	subscription, err := s.subscriptionRepository.GetLatestSubscriptionByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domain.Wrap(domain.KindInternal, domain.ErrSubscriptionLookupFailure.Message, err)
	}

	status := Snapshot(subscription, s.now())
	return &status, nil
}

// ownedSubscription loads the order and hides orders of other users behind
// the same not found error as unknown ones.
func (s *subscriptionService) ownedSubscription(ctx context.Context, userID string, orderID string, lookupFailure *domain.Error) (*entities.Subscription, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.ErrOrderIDRequired
	}

	subscription, err := s.subscriptionRepository.GetSubscriptionByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, domain.Wrap(domain.KindInternal, lookupFailure.Message, err)
	}
	if subscription.UserID.String() != userID {
		return nil, domain.ErrSubscriptionNotFound
	}
	return subscription, nil
}

// CheckTransactionStatus returns the gateway's view of one of the caller's
// orders without interpreting it.
func (s *subscriptionService) CheckTransactionStatus(ctx context.Context, userID string, orderID string) (domain.TransactionStatus, error) {
	if _, err := s.ownedSubscription(ctx, userID, orderID, domain.ErrSubscriptionLookupFailure); err != nil {
		return domain.TransactionStatus{}, err
	}

	status, err := s.gateway.CheckTransaction(ctx, orderID)
	if err != nil {
		if domain.KindOf(err) == domain.KindPaymentGateway {
			return domain.TransactionStatus{}, err
		}
		return domain.TransactionStatus{}, domain.Wrap(domain.KindPaymentGateway, domain.ErrCheckTransactionStatus.Message, err)
	}
	return status, nil
}

// CancelSubscription cancels on the gateway best-effort, then marks the
// caller's row cancelled even if the gateway refused.
func (s *subscriptionService) CancelSubscription(ctx context.Context, userID string, orderID string) error {
	if _, err := s.ownedSubscription(ctx, userID, orderID, domain.ErrCancelSubscriptionRecord); err != nil {
		return err
	}

	gatewayCancelled := true
	if err := s.gateway.CancelTransaction(ctx, orderID); err != nil {
		gatewayCancelled = false
		log.Warnw("failed to cancel on gateway, may already be cancelled", "order_id", orderID, "error", err)
	}

	affected, err := s.subscriptionRepository.CancelSubscription(ctx, userID, orderID, s.now())
	if err != nil {
		return domain.Wrap(domain.KindInternal, domain.ErrCancelSubscriptionRecord.Message, err)
	}
	if affected == 0 {
		return domain.ErrSubscriptionNotFound
	}

	s.metrics.RecordCancellation(gatewayCancelled)
	log.Infow("subscription cancelled", "order_id", orderID, "user_id", userID, "gateway_cancelled", gatewayCancelled)
	return nil
}
