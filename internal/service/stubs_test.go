package service_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs shared by the service tests. DB() returns nil so
// runTx executes callbacks directly, without a real database.

// ── Transactions ──────────────────────────────────────────────────────────────

type stubTxRepo struct {
	txs        map[uuid.UUID]*model.SalesTransaction
	statusLogs []model.TransactionStatusLog
	createErr  error
	// sameDayMissOnce makes the next FindSameDay return nothing, simulating a
	// concurrent writer landing between the duplicate check and the insert.
	sameDayMissOnce bool
}

func newStubTxRepo() *stubTxRepo {
	return &stubTxRepo{txs: make(map[uuid.UUID]*model.SalesTransaction)}
}

func (r *stubTxRepo) DB() *gorm.DB { return nil }

func (r *stubTxRepo) Create(_ context.Context, _ *gorm.DB, t *model.SalesTransaction) error {
	if r.createErr != nil {
		return r.createErr
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.txs[t.ID] = &cp
	return nil
}

func (r *stubTxRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalesTransaction, error) {
	t, ok := r.txs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (r *stubTxRepo) FindSameDay(_ context.Context, _ *gorm.DB, clientID, itemID uuid.UUID, day time.Time) (*model.SalesTransaction, error) {
	if r.sameDayMissOnce {
		r.sameDayMissOnce = false
		return nil, nil
	}
	for _, t := range r.txs {
		if t.Type == model.TransactionSale &&
			t.ClientID == clientID &&
			t.InventoryItemID == itemID &&
			t.SaleDate.Format("2006-01-02") == day.Format("2006-01-02") {
			return t, nil
		}
	}
	return nil, nil
}

func (r *stubTxRepo) HasCredit(_ context.Context, originalID uuid.UUID) (bool, error) {
	for _, t := range r.txs {
		if t.Type == model.TransactionCredit && t.OriginalID != nil && *t.OriginalID == originalID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubTxRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]model.SalesTransaction, error) {
	var out []model.SalesTransaction
	for _, t := range r.txs {
		if t.ClientID == clientID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTxRepo) List(_ context.Context, _ dto.TransactionFilter) ([]model.SalesTransaction, int64, error) {
	var out []model.SalesTransaction
	for _, t := range r.txs {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTxRepo) Update(_ context.Context, t *model.SalesTransaction) error {
	cp := *t
	r.txs[t.ID] = &cp
	return nil
}

func (r *stubTxRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.txs, id)
	return nil
}

func (r *stubTxRepo) CreateStatusLogTx(_ *gorm.DB, l *model.TransactionStatusLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.statusLogs = append(r.statusLogs, *l)
	return nil
}

func (r *stubTxRepo) ListStatusLogs(_ context.Context, transactionID uuid.UUID) ([]model.TransactionStatusLog, error) {
	var out []model.TransactionStatusLog
	for _, l := range r.statusLogs {
		if l.TransactionID == transactionID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubTxRepo) AdvisoryLockTx(_ *gorm.DB, _, _ uuid.UUID) error { return nil }

var _ repository.TransactionRepository = (*stubTxRepo)(nil)

// ── Clients ───────────────────────────────────────────────────────────────────

type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) seed(email string) *model.Client {
	c := &model.Client{
		ID:        uuid.New(),
		FirstName: "Test",
		LastName:  "Client",
		Email:     email,
		VIPTier:   model.TierRegular,
		Active:    true,
	}
	r.clients[c.ID] = c
	return c
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubClientRepo) FindByEmail(_ context.Context, email string) (*model.Client, error) {
	for _, c := range r.clients {
		if strings.EqualFold(c.Email, email) && c.Active {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubClientRepo) List(_ context.Context, _ dto.ClientFilter) ([]model.Client, int64, error) {
	var out []model.Client
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clients[id]; ok {
		c.Active = false
	}
	return nil
}

func (r *stubClientRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clients[id]; ok {
		c.Active = true
	}
	return nil
}

func (r *stubClientRepo) UpdateStats(_ context.Context, id uuid.UUID, spend decimal.Decimal, count int, last *time.Time, tier string) error {
	c, ok := r.clients[id]
	if !ok {
		return errors.New("not found")
	}
	c.TotalSpend = spend
	c.PurchaseCount = count
	c.LastPurchase = last
	c.VIPTier = tier
	return nil
}

func (r *stubClientRepo) FindBirthdaysOn(_ context.Context, month time.Month, day int, year int) ([]model.Client, error) {
	var out []model.Client
	for _, c := range r.clients {
		if !c.Active || c.Birthday == nil {
			continue
		}
		if c.Birthday.Month() != month || c.Birthday.Day() != day {
			continue
		}
		if c.LastBirthdayGreeting != nil && c.LastBirthdayGreeting.Year() >= year {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClientRepo) MarkBirthdayGreeted(_ context.Context, id uuid.UUID, at time.Time) error {
	if c, ok := r.clients[id]; ok {
		c.LastBirthdayGreeting = &at
	}
	return nil
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)

// ── Inventory ─────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	items map[uuid.UUID]*model.InventoryItem
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{items: make(map[uuid.UUID]*model.InventoryItem)}
}

func (r *stubInventoryRepo) seed(serial string) *model.InventoryItem {
	it := &model.InventoryItem{
		ID:           uuid.New(),
		SerialNumber: serial,
		Brand:        "Rolex",
		Model:        "Submariner",
		CostPrice:    decimal.NewFromInt(5000),
		RetailPrice:  decimal.NewFromInt(9000),
		Status:       model.StatusInStock,
		Active:       true,
	}
	r.items[it.ID] = it
	return it
}

func (r *stubInventoryRepo) Create(_ context.Context, it *model.InventoryItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	r.items[it.ID] = it
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return it, nil
}

func (r *stubInventoryRepo) FindBySerial(_ context.Context, serial string) (*model.InventoryItem, error) {
	for _, it := range r.items {
		if it.SerialNumber == serial && it.Active {
			return it, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubInventoryRepo) List(_ context.Context, _ dto.InventoryFilter) ([]model.InventoryItem, int64, error) {
	var out []model.InventoryItem
	for _, it := range r.items {
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (r *stubInventoryRepo) Update(_ context.Context, it *model.InventoryItem) error {
	r.items[it.ID] = it
	return nil
}

func (r *stubInventoryRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if it, ok := r.items[id]; ok {
		it.Active = false
	}
	return nil
}

func (r *stubInventoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	it, ok := r.items[id]
	if !ok {
		return errors.New("not found")
	}
	it.Status = status
	return nil
}

func (r *stubInventoryRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	it, ok := r.items[id]
	if !ok {
		return errors.New("not found")
	}
	it.Status = status
	return nil
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── Users / account requests ──────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, roles ...string) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !u.Active {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				out = append(out, *u)
				break
			}
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubAccountRequestRepo struct {
	reqs map[uuid.UUID]*model.AccountRequest
}

func newStubAccountRequestRepo() *stubAccountRequestRepo {
	return &stubAccountRequestRepo{reqs: make(map[uuid.UUID]*model.AccountRequest)}
}

func (r *stubAccountRequestRepo) Create(_ context.Context, req *model.AccountRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	r.reqs[req.ID] = req
	return nil
}

func (r *stubAccountRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AccountRequest, error) {
	req, ok := r.reqs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return req, nil
}

func (r *stubAccountRequestRepo) FindByEmail(_ context.Context, email string) (*model.AccountRequest, error) {
	for _, req := range r.reqs {
		if strings.EqualFold(req.Email, email) {
			return req, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubAccountRequestRepo) ListPending(_ context.Context) ([]model.AccountRequest, error) {
	var out []model.AccountRequest
	for _, req := range r.reqs {
		if req.Status == "pending" {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubAccountRequestRepo) Update(_ context.Context, req *model.AccountRequest) error {
	r.reqs[req.ID] = req
	return nil
}

var _ repository.AccountRequestRepository = (*stubAccountRequestRepo)(nil)

// ── Wishlist ──────────────────────────────────────────────────────────────────

type stubWishlistRepo struct {
	wishes map[uuid.UUID]*model.WishlistEntry
}

func newStubWishlistRepo() *stubWishlistRepo {
	return &stubWishlistRepo{wishes: make(map[uuid.UUID]*model.WishlistEntry)}
}

func (r *stubWishlistRepo) Create(_ context.Context, w *model.WishlistEntry) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.wishes[w.ID] = w
	return nil
}

func (r *stubWishlistRepo) FindByID(_ context.Context, id uuid.UUID) (*model.WishlistEntry, error) {
	w, ok := r.wishes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return w, nil
}

func (r *stubWishlistRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]model.WishlistEntry, error) {
	var out []model.WishlistEntry
	for _, w := range r.wishes {
		if w.ClientID == clientID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *stubWishlistRepo) FindOpenByBrand(_ context.Context, brand string) ([]model.WishlistEntry, error) {
	var out []model.WishlistEntry
	for _, w := range r.wishes {
		if w.Status == "open" && strings.EqualFold(w.Brand, brand) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *stubWishlistRepo) Update(_ context.Context, w *model.WishlistEntry) error {
	r.wishes[w.ID] = w
	return nil
}

func (r *stubWishlistRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.wishes, id)
	return nil
}

var _ repository.WishlistRepository = (*stubWishlistRepo)(nil)

// ── Repairs ───────────────────────────────────────────────────────────────────

type stubRepairRepo struct {
	repairs    map[uuid.UUID]*model.Repair
	statusLogs []model.RepairStatusLog
}

func newStubRepairRepo() *stubRepairRepo {
	return &stubRepairRepo{repairs: make(map[uuid.UUID]*model.Repair)}
}

func (r *stubRepairRepo) DB() *gorm.DB { return nil }

func (r *stubRepairRepo) Create(_ context.Context, rep *model.Repair) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	r.repairs[rep.ID] = rep
	return nil
}

func (r *stubRepairRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Repair, error) {
	rep, ok := r.repairs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rep, nil
}

func (r *stubRepairRepo) List(_ context.Context, _ dto.RepairFilter) ([]model.Repair, int64, error) {
	var out []model.Repair
	for _, rep := range r.repairs {
		out = append(out, *rep)
	}
	return out, int64(len(out)), nil
}

func (r *stubRepairRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	rep, ok := r.repairs[id]
	if !ok {
		return errors.New("not found")
	}
	rep.Status = status
	return nil
}

func (r *stubRepairRepo) CreateStatusLogTx(_ *gorm.DB, l *model.RepairStatusLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.statusLogs = append(r.statusLogs, *l)
	return nil
}

func (r *stubRepairRepo) ListStatusLogs(_ context.Context, repairID uuid.UUID) ([]model.RepairStatusLog, error) {
	var out []model.RepairStatusLog
	for _, l := range r.statusLogs {
		if l.RepairID == repairID {
			out = append(out, l)
		}
	}
	return out, nil
}

var _ repository.RepairRepository = (*stubRepairRepo)(nil)

// ── Notifications ─────────────────────────────────────────────────────────────

type stubNotificationRepo struct {
	notifications []model.Notification
}

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return errors.New("not found")
}

var _ repository.NotificationRepository = (*stubNotificationRepo)(nil)

// recordingQueue captures enqueued emails for assertion.
type recordingQueue struct {
	emails []queuedEmail
}

type queuedEmail struct {
	To      []string
	Subject string
	Body    string
}

func (q *recordingQueue) EnqueueEmail(_ context.Context, to []string, subject, body string) error {
	q.emails = append(q.emails, queuedEmail{To: to, Subject: subject, Body: body})
	return nil
}
