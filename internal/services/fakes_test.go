package services

import (
	"context"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workorder-system/internal/entities"
	"workorder-system/internal/repositories"
	"workorder-system/pkg/constants"
	"workorder-system/pkg/contextkeys"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/types"
)

const (
	adminID      uint64 = 1
	techID       uint64 = 7
	otherTechID  uint64 = 8
	nonTechID    uint64 = 5
	clientID     uint64 = 1
	otherClient  uint64 = 2
	equipmentID  uint64 = 10
	foreignEquip uint64 = 11
	calServiceID uint64 = 1
	pmServiceID  uint64 = 2
)

func ctxAs(userID uint64, role string) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
	return context.WithValue(ctx, contextkeys.UserRoleKey, role)
}

func adminCtx() context.Context { return ctxAs(adminID, constants.RoleAdmin) }
func techCtx() context.Context  { return ctxAs(techID, constants.RoleTechnician) }

// --- transactions ---

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

// --- work orders ---

type fakeOrderRepo struct {
	orders      map[uint64]*entities.WorkOrder
	nextID      uint64
	seq         int64
	patches     []repositories.WorkOrderPatch
	listScope   *uint64
	listFilters []types.Filter
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint64]*entities.WorkOrder)}
}

func (r *fakeOrderRepo) put(o entities.WorkOrder) *entities.WorkOrder {
	if o.ID == 0 {
		r.nextID++
		o.ID = r.nextID
	} else if o.ID > r.nextID {
		r.nextID = o.ID
	}
	stored := o
	r.orders[o.ID] = &stored
	return &stored
}

func (r *fakeOrderRepo) NextOrderSequence(ctx context.Context, tx pgx.Tx) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeOrderRepo) Create(ctx context.Context, tx pgx.Tx, order *entities.WorkOrder) (uint64, error) {
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := r.put(*order)
	order.ID = stored.ID
	return order.ID, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("work order", id)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkOrder, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *fakeOrderRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, p repositories.WorkOrderPatch) error {
	o, ok := r.orders[id]
	if !ok {
		return apperrors.NotFound("work order", id)
	}
	r.patches = append(r.patches, p)

	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Priority != nil {
		o.Priority = *p.Priority
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.ClientID != nil {
		o.ClientID = *p.ClientID
	}
	if p.EquipmentID != nil {
		o.EquipmentID = *p.EquipmentID
	}
	if p.SetScheduledDate {
		o.ScheduledDate = p.ScheduledDate
	}
	if p.SetAssignedTechnician {
		o.AssignedTechnicianID = p.AssignedTechnicianID
	}
	if p.SetServiceLocation {
		o.ServiceLocation = p.ServiceLocation
	}
	if p.SetClientServiceOrderNumber {
		o.ClientServiceOrderNumber = p.ClientServiceOrderNumber
	}
	if p.StartDate != nil && o.StartDate == nil {
		o.StartDate = p.StartDate
	}
	if p.CompletionDate != nil && o.CompletionDate == nil {
		o.CompletionDate = p.CompletionDate
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.orders[id]; !ok {
		return apperrors.NotFound("work order", id)
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, filter types.Filter, technicianID *uint64) ([]entities.WorkOrder, uint64, error) {
	r.listScope = technicianID
	r.listFilters = append(r.listFilters, filter)

	ids := make([]uint64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]entities.WorkOrder, 0)
	for _, id := range ids {
		o := r.orders[id]
		if technicianID != nil && !o.IsAssignedTo(*technicianID) {
			continue
		}
		result = append(result, *o)
	}
	return result, uint64(len(result)), nil
}

// --- housings ---

type fakeHousingRepo struct {
	nextID   uint64
	services map[uint64][]entities.WorkOrderService
	housings map[uint64][]entities.Housing
	replaced int
}

func newFakeHousingRepo() *fakeHousingRepo {
	return &fakeHousingRepo{
		services: make(map[uint64][]entities.WorkOrderService),
		housings: make(map[uint64][]entities.Housing),
	}
}

func (r *fakeHousingRepo) InsertConfiguration(ctx context.Context, tx pgx.Tx, workOrderID uint64, configs []entities.ServiceConfiguration) error {
	for _, c := range configs {
		r.nextID++
		svc := c.Service
		svc.ID = r.nextID
		svc.WorkOrderID = workOrderID
		r.services[workOrderID] = append(r.services[workOrderID], svc)

		for _, h := range c.Housings {
			r.nextID++
			h.ID = r.nextID
			h.WorkOrderID = workOrderID
			svcID := svc.ID
			h.WorkOrderServiceID = &svcID
			r.housings[workOrderID] = append(r.housings[workOrderID], h)
		}
	}
	return nil
}

func (r *fakeHousingRepo) ReplaceConfiguration(ctx context.Context, tx pgx.Tx, workOrderID uint64, configs []entities.ServiceConfiguration) error {
	r.replaced++
	delete(r.services, workOrderID)
	delete(r.housings, workOrderID)
	return r.InsertConfiguration(ctx, tx, workOrderID, configs)
}

func (r *fakeHousingRepo) FindServicesByOrder(ctx context.Context, workOrderID uint64) ([]entities.WorkOrderService, error) {
	return append([]entities.WorkOrderService(nil), r.services[workOrderID]...), nil
}

func (r *fakeHousingRepo) FindHousingsByOrder(ctx context.Context, workOrderID uint64) ([]entities.Housing, error) {
	return append([]entities.Housing(nil), r.housings[workOrderID]...), nil
}

func (r *fakeHousingRepo) FindOwnedHousingIDs(ctx context.Context, tx pgx.Tx, workOrderID uint64, ids []uint64) ([]uint64, error) {
	owned := make(map[uint64]bool)
	for _, h := range r.housings[workOrderID] {
		owned[h.ID] = true
	}
	result := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if owned[id] {
			result = append(result, id)
		}
	}
	return result, nil
}

// --- measurements ---

type fakeMeasurementRepo struct {
	nextID  uint64
	created []entities.Measurement
}

func (r *fakeMeasurementRepo) Create(ctx context.Context, tx pgx.Tx, m *entities.Measurement) (uint64, error) {
	r.nextID++
	m.ID = r.nextID
	m.MeasuredAt = time.Now()
	for i := range m.Readings {
		m.Readings[i].ID = r.nextID*100 + uint64(i)
		m.Readings[i].MeasurementID = m.ID
	}
	r.created = append(r.created, *m)
	return m.ID, nil
}

func (r *fakeMeasurementRepo) FindByOrder(ctx context.Context, workOrderID uint64) ([]entities.Measurement, error) {
	result := make([]entities.Measurement, 0)
	for _, m := range r.created {
		if m.WorkOrderID == workOrderID {
			result = append(result, m)
		}
	}
	return result, nil
}

// --- documents ---

type fakeDocumentRepo struct {
	linked        map[uint64][]entities.Document
	equipmentDocs []entities.Document
	perms         map[uint64]map[uint64]bool
	replaceCalls  int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		linked: make(map[uint64][]entities.Document),
		perms:  make(map[uint64]map[uint64]bool),
	}
}

func (r *fakeDocumentRepo) FindLinkedToOrder(ctx context.Context, workOrderID uint64) ([]entities.Document, error) {
	return r.linked[workOrderID], nil
}

func (r *fakeDocumentRepo) FindForEquipment(ctx context.Context, equipment *entities.Equipment) ([]entities.Document, error) {
	return r.equipmentDocs, nil
}

func (r *fakeDocumentRepo) FindPermissions(ctx context.Context, workOrderID uint64) (map[uint64]bool, error) {
	result := make(map[uint64]bool)
	for k, v := range r.perms[workOrderID] {
		result[k] = v
	}
	return result, nil
}

func (r *fakeDocumentRepo) ReplacePermissions(ctx context.Context, tx pgx.Tx, workOrderID uint64, permissions []entities.DocumentPermission) error {
	r.replaceCalls++
	set := make(map[uint64]bool, len(permissions))
	for _, p := range permissions {
		set[p.DocumentID] = p.IsVisibleToTechnician
	}
	r.perms[workOrderID] = set
	return nil
}

// --- signatures ---

type fakeSignatureRepo struct {
	sigs []entities.ConformitySignature
}

func (r *fakeSignatureRepo) Create(ctx context.Context, tx pgx.Tx, sig *entities.ConformitySignature) (uint64, error) {
	sig.ID = uint64(len(r.sigs) + 1)
	sig.SignedAt = time.Now().Add(time.Duration(sig.ID) * time.Second)
	r.sigs = append(r.sigs, *sig)
	return sig.ID, nil
}

func (r *fakeSignatureRepo) FindLatest(ctx context.Context, workOrderID uint64) (*entities.ConformitySignature, error) {
	for i := len(r.sigs) - 1; i >= 0; i-- {
		if r.sigs[i].WorkOrderID == workOrderID {
			s := r.sigs[i]
			return &s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// --- activity ---

type fakeActivityRepo struct {
	entries []entities.ActivityLog
	err     error
}

func (r *fakeActivityRepo) CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.ActivityLog) error {
	if r.err != nil {
		return r.err
	}
	entry.ID = uint64(len(r.entries) + 1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) FindByWorkOrder(ctx context.Context, workOrderID uint64) ([]entities.ActivityLog, error) {
	result := make([]entities.ActivityLog, 0)
	for _, e := range r.entries {
		if e.WorkOrderID != nil && *e.WorkOrderID == workOrderID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeActivityRepo) actions() []string {
	result := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.Action)
	}
	return result
}

// --- catalog and users ---

type fakeCatalogRepo struct {
	clients   map[uint64]bool
	equipment map[uint64]*entities.Equipment
	services  map[uint64]entities.Service
}

func (r *fakeCatalogRepo) ClientExists(ctx context.Context, id uint64) (bool, error) {
	return r.clients[id], nil
}

func (r *fakeCatalogRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	e, ok := r.equipment[id]
	if !ok {
		return nil, apperrors.NotFound("equipment", id)
	}
	cp := *e
	return &cp, nil
}

func (r *fakeCatalogRepo) FindServicesByIDs(ctx context.Context, ids []uint64) (map[uint64]entities.Service, error) {
	result := make(map[uint64]entities.Service)
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			result[id] = s
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[uint64]*entities.User
	calls int
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

type fakeCache struct {
	values map[string]string
	getErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.sets++
	c.values[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

// --- wiring ---

type testEnv struct {
	tx           *fakeTxManager
	orders       *fakeOrderRepo
	housings     *fakeHousingRepo
	measurements *fakeMeasurementRepo
	documents    *fakeDocumentRepo
	signatures   *fakeSignatureRepo
	activityRepo *fakeActivityRepo
	catalog      *fakeCatalogRepo
	users        *fakeUserRepo

	workOrderSvc   *WorkOrderService
	measurementSvc MeasurementServiceInterface
	documentSvc    DocumentServiceInterface
	signatureSvc   SignatureServiceInterface
}

func newTestEnv() *testEnv {
	brandID, modelID := uint64(100), uint64(200)
	env := &testEnv{
		tx:           &fakeTxManager{},
		orders:       newFakeOrderRepo(),
		housings:     newFakeHousingRepo(),
		measurements: &fakeMeasurementRepo{},
		documents:    newFakeDocumentRepo(),
		signatures:   &fakeSignatureRepo{},
		activityRepo: &fakeActivityRepo{},
		catalog: &fakeCatalogRepo{
			clients: map[uint64]bool{clientID: true, otherClient: true},
			equipment: map[uint64]*entities.Equipment{
				equipmentID:  {ID: equipmentID, ClientID: clientID, BrandID: &brandID, ModelID: &modelID},
				foreignEquip: {ID: foreignEquip, ClientID: otherClient},
			},
			services: map[uint64]entities.Service{
				calServiceID: {ID: calServiceID, Code: "CAL", Name: "Calibration"},
				pmServiceID:  {ID: pmServiceID, Code: "PM", Name: "Preventive maintenance"},
			},
		},
		users: &fakeUserRepo{users: map[uint64]*entities.User{
			adminID:     {ID: adminID, Fio: "Admin", Role: constants.RoleAdmin},
			techID:      {ID: techID, Fio: "Tech", Role: constants.RoleTechnician},
			otherTechID: {ID: otherTechID, Fio: "Other tech", Role: constants.RoleTechnician},
			nonTechID:   {ID: nonTechID, Fio: "Second admin", Role: constants.RoleAdmin},
		}},
	}

	logger := zap.NewNop()
	activity := NewActivityService(env.activityRepo, nil, logger)
	resolver := NewDocumentResolver(env.documents, env.catalog)

	env.workOrderSvc = NewWorkOrderService(
		env.tx, env.orders, env.housings, env.catalog, env.users, env.measurements, env.signatures,
		NewSequencer(env.orders), resolver, activity, logger,
	).(*WorkOrderService)
	env.measurementSvc = NewMeasurementService(env.tx, env.orders, env.housings, env.measurements, activity, logger)
	env.documentSvc = NewDocumentService(env.tx, env.orders, env.documents, resolver, activity, logger)
	env.signatureSvc = NewSignatureService(env.tx, env.orders, env.signatures, activity, logger)
	return env
}

// seedOrder stores an order directly, bypassing Create.
func (env *testEnv) seedOrder(assignedTo *uint64) *entities.WorkOrder {
	status := constants.StatusCreated
	if assignedTo != nil {
		status = constants.StatusAssigned
	}
	return env.orders.put(entities.WorkOrder{
		OrderNumber:          "OT-000099",
		ClientID:             clientID,
		EquipmentID:          equipmentID,
		Title:                "Seeded order",
		Priority:             constants.PriorityMedium,
		Status:               status,
		AssignedTechnicianID: assignedTo,
		CreatedBy:            adminID,
	})
}
