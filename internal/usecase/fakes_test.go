package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/service"
	"marketplace/pkg/errors"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Emails are unique at the store level.
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return errors.Conflict("Email already registered")
		}
	}
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByResetTokenHash(ctx context.Context, tokenHash string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ResetPasswordToken != "" && user.ResetPasswordToken == tokenHash {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	for id, existing := range r.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return errors.Conflict("Email already registered")
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return errors.NotFound("User", nil)
	}
	delete(r.users, id)
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	seq      int

	// failDecrement forces DecrementStock to fail for the given product,
	// simulating stock consumed by a concurrent order between the
	// validation pass and the decrement pass.
	failDecrement map[string]bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:      make(map[string]*entity.Product),
		failDecrement: make(map[string]bool),
	}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		r.seq++
		product.ID = fmt.Sprintf("product-%d", r.seq)
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) List(ctx context.Context, keyword, category string, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Product
	for _, product := range r.products {
		if category != "" && product.Category != category {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(keyword)) {
			continue
		}
		copied := *product
		matched = append(matched, &copied)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*entity.Product{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeProductRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var products []*entity.Product
	for _, product := range r.products {
		if product.SellerID == sellerID {
			copied := *product
			products = append(products, &copied)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) TopRated(ctx context.Context, limit int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var products []*entity.Product
	for _, product := range r.products {
		copied := *product
		products = append(products, &copied)
	}
	for i := 0; i < len(products); i++ {
		for j := i + 1; j < len(products); j++ {
			if products[j].Rating > products[i].Rating {
				products[i], products[j] = products[j], products[i]
			}
		}
	}
	if limit < len(products) {
		products = products[:limit]
	}
	return products, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return errors.NotFound("Product", nil)
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return errors.NotFound("Product", nil)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	if r.failDecrement[id] || product.Stock < qty {
		return errors.InsufficientStock(product.Name)
	}
	product.Stock -= qty
	return nil
}

func (r *fakeProductRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	product.Stock += qty
	return nil
}

func (r *fakeProductRepo) AddReview(ctx context.Context, productID string, review entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	if product.ReviewedBy(review.UserID) {
		return errors.Conflict("Product already reviewed")
	}
	product.ApplyReview(review)
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
	seq    int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*entity.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == "" {
		r.seq++
		order.ID = fmt.Sprintf("order-%d", r.seq)
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []*entity.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) ListAll(ctx context.Context) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders := make([]*entity.Order, 0, len(r.orders))
	for _, order := range r.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return errors.NotFound("Order", nil)
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return errors.NotFound("Order", nil)
	}
	delete(r.orders, id)
	return nil
}

type fakeChatRepo struct {
	mu    sync.Mutex
	chats map[string]*entity.Chat
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*entity.Chat)}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[chat.ID]; ok {
		return errors.Conflict("Chat already exists")
	}
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	copied := *chat
	return &copied, nil
}

func (r *fakeChatRepo) GetByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error) {
	return r.GetByID(ctx, pairKey)
}

func (r *fakeChatRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			copied := *chat
			chats = append(chats, &copied)
		}
	}
	return chats, nil
}

func (r *fakeChatRepo) AppendMessage(ctx context.Context, chatID string, message entity.ChatMessage) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	chat.Messages = append(chat.Messages, message)
	chat.LastMessage = message.Content
	chat.LastMessageAt = message.CreatedAt
	chat.UpdatedAt = message.CreatedAt
	copied := *chat
	return &copied, nil
}

type fakeGateway struct {
	mu         sync.Mutex
	createErr  error
	captureErr error
	intentID   string
	capture    *service.CaptureResult

	createRequests []service.PaymentRequest
	capturedIDs    []string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req service.PaymentRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createRequests = append(g.createRequests, req)
	if g.createErr != nil {
		return "", g.createErr
	}
	return g.intentID, nil
}

func (g *fakeGateway) CaptureOrder(ctx context.Context, intentID string) (*service.CaptureResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.capturedIDs = append(g.capturedIDs, intentID)
	if g.captureErr != nil {
		return nil, g.captureErr
	}
	return g.capture, nil
}

type fakeMailer struct {
	mu      sync.Mutex
	err     error
	toAddrs []string
	bodies  []string
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.toAddrs = append(m.toAddrs, to)
	m.bodies = append(m.bodies, body)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Generate(userID string) (string, error) {
	return "token-" + userID, nil
}

func (fakeTokens) Verify(token string) (string, error) {
	if !strings.HasPrefix(token, "token-") {
		return "", errors.Unauthorized("Invalid token", nil)
	}
	return strings.TrimPrefix(token, "token-"), nil
}

type fakeAssetStore struct {
	mu        sync.Mutex
	seq       int
	uploadErr error
	uploaded  []string
	deleted   []string
}

func (a *fakeAssetStore) Upload(ctx context.Context, file io.Reader, contentType, folder string) (*service.Asset, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.uploadErr != nil {
		return nil, a.uploadErr
	}
	a.seq++
	id := fmt.Sprintf("%s/asset-%d", folder, a.seq)
	a.uploaded = append(a.uploaded, id)
	return &service.Asset{
		ID:  id,
		URL: "https://assets.test/" + id,
	}, nil
}

func (a *fakeAssetStore) Delete(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, id)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []string
	payloads []interface{}
}

func (n *fakeNotifier) NotifyNewMessage(userID string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, userID)
	n.payloads = append(n.payloads, payload)
}
