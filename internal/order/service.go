package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/evanazhr/simple-pos-api/internal/logging"
	"github.com/evanazhr/simple-pos-api/internal/models"
	"github.com/evanazhr/simple-pos-api/internal/payment"
	"github.com/evanazhr/simple-pos-api/internal/pricing"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

// PaymentInitError means the order was durably persisted but the
// gateway call failed. The order id is carried so the caller can offer
// a retry-payment path for it instead of a new checkout.
type PaymentInitError struct {
	OrderID uint
	Err     error
}

func (e *PaymentInitError) Error() string {
	return fmt.Sprintf("payment initiation failed for order %d: %v", e.OrderID, e.Err)
}

func (e *PaymentInitError) Unwrap() error { return e.Err }

// ReconciliationError means the gateway accepted the payment request
// but writing its identifiers back onto the order failed: an external
// payment obligation now exists that the ledger does not reference.
// Requires manual reconciliation.
type ReconciliationError struct {
	OrderID    uint
	ExternalID string
	Err        error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("order %d: gateway accepted payment %s but write-back failed: %v", e.OrderID, e.ExternalID, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

type Gateway interface {
	CreateQRPaymentRequest(ctx context.Context, req payment.PaymentRequest) (*payment.QRPayment, error)
}

type LineRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  uint `json:"quantity"   validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Items []LineRequest `json:"order_items" validate:"required,min=1,dive"`
}

type CreateOrderResult struct {
	Order     models.Order       `json:"order"`
	Items     []models.OrderItem `json:"order_items"`
	QRPayload string             `json:"qr_payload"`
}

type Service struct {
	DB      *gorm.DB
	Gateway Gateway
}

// CreateOrder re-prices the client-submitted lines against the
// catalog, persists the order and its items in one transaction, and
// only then initiates payment. The gateway call is deliberately
// outside the transaction: a third-party API cannot be rolled back, so
// its failures leave the order standing in awaiting_payment.
func (s *Service) CreateOrder(ctx context.Context, userID uint, req CreateOrderRequest) (*CreateOrderResult, error) {
	l := logging.FromContext(ctx).With("op", "order.create")

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order_items required", ErrValidation)
	}

	ids := make([]uint, 0, len(req.Items))
	qtyByProduct := make(map[uint]uint, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be >= 1 for product %d", ErrValidation, it.ProductID)
		}
		if _, dup := qtyByProduct[it.ProductID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %d", ErrValidation, it.ProductID)
		}
		qtyByProduct[it.ProductID] = it.Quantity
		ids = append(ids, it.ProductID)
	}

	var products []models.Product
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, fmt.Errorf("%w: unknown products %v", ErrNotFound, missingIDs(ids, products))
	}

	lines := make([]pricing.LineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, pricing.LineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	quote, err := pricing.PriceOrder(products, lines)
	if err != nil {
		return nil, err
	}

	ord := models.Order{
		UserID:     userID,
		Subtotal:   quote.Subtotal,
		Tax:        quote.Tax,
		GrandTotal: quote.GrandTotal,
		Status:     models.OrderStatusAwaitingPayment,
		CreatedAt:  time.Now().Unix(),
	}

	var items []models.OrderItem
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ord).Error; err != nil {
			return err
		}
		items = make([]models.OrderItem, 0, len(products))
		for _, p := range products {
			oi := models.OrderItem{
				OrderID:   ord.ID,
				ProductID: p.ID,
				Price:     p.Price,
				Quantity:  qtyByProduct[p.ID],
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			items = append(items, oi)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	qr, err := s.initiatePayment(ctx, &ord)
	if err != nil {
		return nil, err
	}

	l.Info("order created", "order_id", ord.ID, "grand_total", ord.GrandTotal, "external_transaction_id", ord.ExternalTransactionID)
	return &CreateOrderResult{Order: ord, Items: items, QRPayload: qr.QRPayload}, nil
}

// RetryPayment re-initiates payment for an order whose gateway call
// failed. Safe to repeat: the gateway request is keyed by the order id.
func (s *Service) RetryPayment(ctx context.Context, userID, orderID uint) (*CreateOrderResult, error) {
	ord, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status != models.OrderStatusAwaitingPayment {
		return nil, fmt.Errorf("%w: order %d is not awaiting payment", ErrValidation, orderID)
	}

	qr, err := s.initiatePayment(ctx, ord)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: *ord, Items: ord.Items, QRPayload: qr.QRPayload}, nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var ord models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&ord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return &ord, nil
}

func (s *Service) initiatePayment(ctx context.Context, ord *models.Order) (*payment.QRPayment, error) {
	l := logging.FromContext(ctx).With("op", "order.initiate_payment", "order_id", ord.ID)

	qr, err := s.Gateway.CreateQRPaymentRequest(ctx, payment.PaymentRequest{
		Amount:  ord.GrandTotal,
		OrderID: ord.ID,
	})
	if err != nil {
		l.Warn("payment initiation failed", "error", err, "retryable", payment.Retryable(err))
		return nil, &PaymentInitError{OrderID: ord.ID, Err: err}
	}

	err = s.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", ord.ID).
		Updates(map[string]any{
			"external_transaction_id": qr.ExternalID,
			"payment_method_id":       qr.PaymentMethodID,
		}).Error
	if err != nil {
		l.Error("external ids not saved, manual reconciliation required",
			"external_transaction_id", qr.ExternalID,
			"payment_method_id", qr.PaymentMethodID,
			"error", err,
		)
		return nil, &ReconciliationError{OrderID: ord.ID, ExternalID: qr.ExternalID, Err: err}
	}

	ord.ExternalTransactionID = qr.ExternalID
	ord.PaymentMethodID = qr.PaymentMethodID
	return qr, nil
}

func missingIDs(requested []uint, found []models.Product) []uint {
	have := make(map[uint]struct{}, len(found))
	for _, p := range found {
		have[p.ID] = struct{}{}
	}
	var missing []uint
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
