package usecase

import (
	"context"
	"time"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/internal/domain/service"
	"marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	payments    service.PaymentGateway
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	payments service.PaymentGateway,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		payments:    payments,
	}
}

type OrderItemInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress entity.ShippingAddress
	PaymentMethod   string
	ItemsPrice      float64
	TaxPrice        float64
	ShippingPrice   float64
	TotalPrice      float64
}

// BuyerInfo is the projection of the owning buyer attached to order reads.
type BuyerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderDetail struct {
	*entity.Order
	Buyer *BuyerInfo `json:"buyer,omitempty"`
}

// CreateOrder validates stock for every line item, persists the order with
// name/price snapshots taken from the live products, then decrements stock
// per item. Each decrement is an atomic conditional update; if one fails the
// already-applied decrements are restored and the order is removed, so a
// half-applied order never survives.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, buyerID string, input CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, errors.BadRequest("No order items", nil)
	}

	// Validation pass: every product must exist and cover the requested
	// quantity before anything is written.
	items := make([]entity.OrderItem, len(input.Items))
	for i, item := range input.Items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, errors.InsufficientStock(product.Name)
		}
		items[i] = entity.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		}
	}

	now := time.Now()
	order := &entity.Order{
		UserID:          buyerID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		TotalPrice:      input.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Decrement pass. A concurrent order may have consumed stock since the
	// validation pass; the conditional decrement catches that.
	for i, item := range order.Items {
		if err := uc.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			uc.compensate(ctx, order, i)
			return nil, err
		}
	}

	return order, nil
}

// compensate restores stock for the first `applied` items and removes the
// order.
func (uc *OrderUseCase) compensate(ctx context.Context, order *entity.Order, applied int) {
	for i := 0; i < applied; i++ {
		item := order.Items[i]
		if err := uc.productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			logger.Error("Failed to restore stock for product %s on order %s: %v", item.ProductID, order.ID, err)
		}
	}
	if err := uc.orderRepo.Delete(ctx, order.ID); err != nil {
		logger.Error("Failed to remove order %s after stock rollback: %v", order.ID, err)
	}
}

// GetOrder returns the order to its buyer, an admin, or a seller owning at
// least one line item's product.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id, userID, role string) (*OrderDetail, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID && role != "admin" {
		sells, err := uc.sellsInto(ctx, order, userID)
		if err != nil {
			return nil, err
		}
		if !sells {
			return nil, errors.Forbidden("Not authorized to view this order", nil)
		}
	}

	return uc.resolveBuyer(ctx, order), nil
}

// sellsInto reports whether userID owns the product behind any line item.
func (uc *OrderUseCase) sellsInto(ctx context.Context, order *entity.Order, userID string) (bool, error) {
	for _, item := range order.Items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				// Product deleted after purchase; the snapshot stands
				// but cannot prove ownership.
				continue
			}
			return false, err
		}
		if product.SellerID == userID {
			return true, nil
		}
	}
	return false, nil
}

// MarkPaid flips the paid flag and stores the gateway's capture payload
// verbatim. The flag is monotonic; repeated calls only refresh the payload.
func (uc *OrderUseCase) MarkPaid(ctx context.Context, id string, result entity.PaymentResult) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &result

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// MarkDelivered records delivery. Deliberately independent of payment state:
// an unpaid order can be marked delivered.
func (uc *OrderUseCase) MarkDelivered(ctx context.Context, id string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (uc *OrderUseCase) MyOrders(ctx context.Context, userID string) ([]*entity.Order, error) {
	return uc.orderRepo.ListByUserID(ctx, userID)
}

func (uc *OrderUseCase) AllOrders(ctx context.Context) ([]*OrderDetail, error) {
	orders, err := uc.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]*OrderDetail, len(orders))
	for i, order := range orders {
		details[i] = uc.resolveBuyer(ctx, order)
	}

	return details, nil
}

// SellerOrders returns every order containing at least one line item whose
// product is owned by the caller.
func (uc *OrderUseCase) SellerOrders(ctx context.Context, sellerID string) ([]*OrderDetail, error) {
	orders, err := uc.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// Product ownership is stable per product, so cache lookups across
	// orders.
	owners := make(map[string]string)
	ownerOf := func(productID string) string {
		if owner, ok := owners[productID]; ok {
			return owner
		}
		owner := ""
		if product, err := uc.productRepo.GetByID(ctx, productID); err == nil {
			owner = product.SellerID
		}
		owners[productID] = owner
		return owner
	}

	var details []*OrderDetail
	for _, order := range orders {
		for _, item := range order.Items {
			if ownerOf(item.ProductID) == sellerID {
				details = append(details, uc.resolveBuyer(ctx, order))
				break
			}
		}
	}

	return details, nil
}

// CreatePaymentIntent starts the capture handshake for the order's owner. The
// submitted breakdown mirrors the order's stored totals exactly.
func (uc *OrderUseCase) CreatePaymentIntent(ctx context.Context, orderID, userID string) (string, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	if order.UserID != userID {
		return "", errors.Forbidden("Not authorized to pay for this order", nil)
	}

	items := make([]service.PaymentItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = service.PaymentItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	return uc.payments.CreateOrder(ctx, service.PaymentRequest{
		OrderID:       order.ID,
		Currency:      "USD",
		ItemsPrice:    order.ItemsPrice,
		TaxPrice:      order.TaxPrice,
		ShippingPrice: order.ShippingPrice,
		TotalPrice:    order.TotalPrice,
		Items:         items,
	})
}

// CapturePayment submits the capture instruction for the order's owner and,
// on success, records the capture result on the order.
func (uc *OrderUseCase) CapturePayment(ctx context.Context, orderID, userID, intentID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, errors.Forbidden("Not authorized to pay for this order", nil)
	}

	capture, err := uc.payments.CaptureOrder(ctx, intentID)
	if err != nil {
		return nil, err
	}

	return uc.MarkPaid(ctx, orderID, entity.PaymentResult{
		ID:           capture.ID,
		Status:       capture.Status,
		UpdateTime:   capture.UpdateTime,
		EmailAddress: capture.PayerEmail,
	})
}

func (uc *OrderUseCase) resolveBuyer(ctx context.Context, order *entity.Order) *OrderDetail {
	detail := &OrderDetail{Order: order}
	if user, err := uc.userRepo.GetByID(ctx, order.UserID); err == nil {
		detail.Buyer = &BuyerInfo{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	return detail
}
