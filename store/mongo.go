package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"qrmenu-backend/models"
)

const (
	colAccounts    = "accounts"
	colTenants     = "restaurants"
	colTables      = "tables"
	colCategories  = "menu_categories"
	colItems       = "menu_items"
	colOrders      = "orders"
	colReviews     = "reviews"
	colWaiterCalls = "waiter_calls"
)

// MongoStore implements Store on MongoDB. Multi-document writes are sequential,
// not transactional: tenant deletion removes children first and the tenant last
// so a retried delete finishes the job.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client:   client,
		database: client.Database(database),
	}
}

func (m *MongoStore) col(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// EnsureIndexes creates the unique email index and the tenant lookups.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	if _, err := m.col(colAccounts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	for _, name := range []string{colAccounts, colTables, colCategories, colItems, colOrders, colReviews, colWaiterCalls} {
		if _, err := m.col(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "restaurant_id", Value: 1}},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

func (m *MongoStore) findOne(ctx context.Context, col string, filter bson.M, out interface{}) error {
	return mongoErr(m.col(col).FindOne(ctx, filter).Decode(out))
}

func (m *MongoStore) findAll(ctx context.Context, col string, filter bson.M, opts *options.FindOptions, out interface{}) error {
	cursor, err := m.col(col).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (m *MongoStore) deleteScoped(ctx context.Context, col, tenantID, id string) error {
	res, err := m.col(col).DeleteOne(ctx, bson.M{"_id": id, "restaurant_id": tenantID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func newest() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func oldest() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
}

// ---------- accounts ----------

func (m *MongoStore) CreateAccount(ctx context.Context, account *models.Account) error {
	_, err := m.col(colAccounts).InsertOne(ctx, account)
	return mongoErr(err)
}

func (m *MongoStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := m.findOne(ctx, colAccounts, bson.M{"_id": id}, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (m *MongoStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := m.findOne(ctx, colAccounts, bson.M{"email": email}, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func accountFilter(filter AccountFilter) bson.M {
	q := bson.M{}
	if filter.TenantID != "" {
		q["restaurant_id"] = filter.TenantID
	}
	if len(filter.Roles) > 0 {
		q["role"] = bson.M{"$in": filter.Roles}
	}
	return q
}

func (m *MongoStore) ListAccounts(ctx context.Context, filter AccountFilter) ([]models.Account, error) {
	accounts := []models.Account{}
	err := m.findAll(ctx, colAccounts, accountFilter(filter), newest(), &accounts)
	return accounts, err
}

func (m *MongoStore) CountAccounts(ctx context.Context, filter AccountFilter) (int64, error) {
	return m.col(colAccounts).CountDocuments(ctx, accountFilter(filter))
}

func (m *MongoStore) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := m.col(colAccounts).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- tenants ----------

// CreateTenant inserts the accounts then the tenant, removing the inserted
// accounts again if a later write fails.
func (m *MongoStore) CreateTenant(ctx context.Context, tenant *models.Tenant, accounts []*models.Account) error {
	var inserted []string
	rollback := func() {
		if len(inserted) > 0 {
			_, _ = m.col(colAccounts).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": inserted}})
		}
	}
	for _, account := range accounts {
		if _, err := m.col(colAccounts).InsertOne(ctx, account); err != nil {
			rollback()
			return mongoErr(err)
		}
		inserted = append(inserted, account.ID)
	}
	if _, err := m.col(colTenants).InsertOne(ctx, tenant); err != nil {
		rollback()
		return mongoErr(err)
	}
	return nil
}

func (m *MongoStore) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := m.findOne(ctx, colTenants, bson.M{"_id": id}, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (m *MongoStore) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	tenants := []models.Tenant{}
	err := m.findAll(ctx, colTenants, bson.M{}, newest(), &tenants)
	return tenants, err
}

func (m *MongoStore) CountTenants(ctx context.Context, status models.SubscriptionStatus) (int64, error) {
	q := bson.M{}
	if status != "" {
		q["subscription_status"] = status
	}
	return m.col(colTenants).CountDocuments(ctx, q)
}

func (m *MongoStore) UpdateTenantProfile(ctx context.Context, tenant *models.Tenant) error {
	res, err := m.col(colTenants).UpdateOne(ctx,
		bson.M{"_id": tenant.ID},
		bson.M{"$set": bson.M{"name": tenant.Name, "address": tenant.Address, "phone": tenant.Phone}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) DeleteTenant(ctx context.Context, id string) error {
	if _, err := m.GetTenant(ctx, id); err != nil {
		return err
	}
	scoped := bson.M{"restaurant_id": id}
	for _, name := range []string{colOrders, colItems, colCategories, colTables, colReviews, colWaiterCalls, colAccounts} {
		if _, err := m.col(name).DeleteMany(ctx, scoped); err != nil {
			return err
		}
	}
	_, err := m.col(colTenants).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (m *MongoStore) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	res, err := m.col(colTenants).UpdateMany(ctx,
		bson.M{
			"subscription_status": models.SubscriptionActive,
			"subscription_end":    bson.M{"$lt": now},
		},
		bson.M{"$set": bson.M{"subscription_status": models.SubscriptionExpired}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ---------- tables ----------

func (m *MongoStore) CreateTable(ctx context.Context, table *models.Table) error {
	_, err := m.col(colTables).InsertOne(ctx, table)
	return mongoErr(err)
}

func (m *MongoStore) GetTable(ctx context.Context, id string) (*models.Table, error) {
	var table models.Table
	if err := m.findOne(ctx, colTables, bson.M{"_id": id}, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (m *MongoStore) ListTables(ctx context.Context, tenantID string) ([]models.Table, error) {
	tables := []models.Table{}
	err := m.findAll(ctx, colTables, bson.M{"restaurant_id": tenantID}, oldest(), &tables)
	return tables, err
}

func (m *MongoStore) DeleteTable(ctx context.Context, tenantID, id string) error {
	return m.deleteScoped(ctx, colTables, tenantID, id)
}

// ---------- catalog ----------

func (m *MongoStore) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	_, err := m.col(colCategories).InsertOne(ctx, category)
	return mongoErr(err)
}

func (m *MongoStore) GetCategory(ctx context.Context, tenantID, id string) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := m.findOne(ctx, colCategories, bson.M{"_id": id, "restaurant_id": tenantID}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (m *MongoStore) ListCategories(ctx context.Context, tenantID string) ([]models.MenuCategory, error) {
	categories := []models.MenuCategory{}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
	err := m.findAll(ctx, colCategories, bson.M{"restaurant_id": tenantID}, opts, &categories)
	return categories, err
}

func (m *MongoStore) UpdateCategory(ctx context.Context, category *models.MenuCategory) error {
	res, err := m.col(colCategories).UpdateOne(ctx,
		bson.M{"_id": category.ID, "restaurant_id": category.TenantID},
		bson.M{"$set": bson.M{"name": category.Name, "order": category.SortOrder}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) DeleteCategory(ctx context.Context, tenantID, id string) error {
	if err := m.deleteScoped(ctx, colCategories, tenantID, id); err != nil {
		return err
	}
	_, err := m.col(colItems).DeleteMany(ctx, bson.M{"restaurant_id": tenantID, "category_id": id})
	return err
}

func (m *MongoStore) CreateItem(ctx context.Context, item *models.MenuItem) error {
	_, err := m.col(colItems).InsertOne(ctx, item)
	return mongoErr(err)
}

func (m *MongoStore) GetItem(ctx context.Context, tenantID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := m.findOne(ctx, colItems, bson.M{"_id": id, "restaurant_id": tenantID}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *MongoStore) ListItems(ctx context.Context, filter ItemFilter) ([]models.MenuItem, error) {
	q := bson.M{"restaurant_id": filter.TenantID}
	if filter.CategoryID != "" {
		q["category_id"] = filter.CategoryID
	}
	if filter.AvailableOnly {
		q["available"] = true
	}
	items := []models.MenuItem{}
	err := m.findAll(ctx, colItems, q, oldest(), &items)
	return items, err
}

func (m *MongoStore) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	res, err := m.col(colItems).UpdateOne(ctx,
		bson.M{"_id": item.ID, "restaurant_id": item.TenantID},
		bson.M{"$set": bson.M{
			"category_id":              item.CategoryID,
			"name":                     item.Name,
			"description":              item.Description,
			"price":                    item.Price,
			"image_url":                item.ImageURL,
			"available":                item.Available,
			"preparation_time_minutes": item.PrepTime,
			"updated_at":               item.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) DeleteItem(ctx context.Context, tenantID, id string) error {
	return m.deleteScoped(ctx, colItems, tenantID, id)
}

// ---------- orders ----------

func orderFilter(filter OrderFilter) bson.M {
	q := bson.M{}
	if filter.TenantID != "" {
		q["restaurant_id"] = filter.TenantID
	}
	status := bson.M{}
	if len(filter.Statuses) > 0 {
		status["$in"] = filter.Statuses
	}
	if len(filter.ExcludeStatuses) > 0 {
		status["$nin"] = filter.ExcludeStatuses
	}
	if len(status) > 0 {
		q["status"] = status
	}
	if filter.PaymentMethod != "" {
		q["payment_method"] = filter.PaymentMethod
	}
	created := bson.M{}
	if !filter.Since.IsZero() {
		created["$gte"] = filter.Since
	}
	if !filter.Until.IsZero() {
		created["$lt"] = filter.Until
	}
	if len(created) > 0 {
		q["created_at"] = created
	}
	return q
}

func (m *MongoStore) CreateOrder(ctx context.Context, order *models.Order) error {
	_, err := m.col(colOrders).InsertOne(ctx, order)
	return mongoErr(err)
}

func (m *MongoStore) GetOrder(ctx context.Context, tenantID, id string) (*models.Order, error) {
	var order models.Order
	if err := m.findOne(ctx, colOrders, bson.M{"_id": id, "restaurant_id": tenantID}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	opts := newest()
	if filter.OldestFirst {
		opts = oldest()
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	orders := []models.Order{}
	err := m.findAll(ctx, colOrders, orderFilter(filter), opts, &orders)
	return orders, err
}

func (m *MongoStore) TransitionOrder(ctx context.Context, tenantID, id string, from []models.OrderStatus, update OrderUpdate) (*models.Order, error) {
	set := bson.M{"updated_at": update.UpdatedAt}
	if update.Status != "" {
		set["status"] = update.Status
	}
	if update.PaymentStatus != "" {
		set["payment_status"] = update.PaymentStatus
	}
	filter := bson.M{"_id": id, "restaurant_id": tenantID}
	if from != nil {
		filter["status"] = bson.M{"$in": from}
	}
	if update.WhilePayment != "" {
		filter["payment_status"] = update.WhilePayment
	}

	var order models.Order
	err := m.col(colOrders).FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, err := m.GetOrder(ctx, tenantID, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoStore) SummarizeOrders(ctx context.Context, filter OrderFilter) ([]OrderSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: orderFilter(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"tenant": "$restaurant_id", "status": "$status"},
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_amount"},
		}}},
	}
	cursor, err := m.col(colOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID struct {
			Tenant string             `bson:"tenant"`
			Status models.OrderStatus `bson:"status"`
		} `bson:"_id"`
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]OrderSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, OrderSummary{TenantID: r.ID.Tenant, Status: r.ID.Status, Count: r.Count, Revenue: r.Revenue})
	}
	return out, nil
}

// ---------- reviews & waiter calls ----------

func (m *MongoStore) CreateReview(ctx context.Context, review *models.Review) error {
	_, err := m.col(colReviews).InsertOne(ctx, review)
	return mongoErr(err)
}

func (m *MongoStore) ListReviews(ctx context.Context, tenantID string) ([]models.Review, error) {
	q := bson.M{}
	if tenantID != "" {
		q["restaurant_id"] = tenantID
	}
	reviews := []models.Review{}
	err := m.findAll(ctx, colReviews, q, newest(), &reviews)
	return reviews, err
}

func (m *MongoStore) SummarizeReviews(ctx context.Context, tenantID string) (ReviewSummary, error) {
	match := bson.M{}
	if tenantID != "" {
		match["restaurant_id"] = tenantID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"average": bson.M{"$avg": "$rating"},
		}}},
	}
	cursor, err := m.col(colReviews).Aggregate(ctx, pipeline)
	if err != nil {
		return ReviewSummary{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count   int64   `bson:"count"`
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return ReviewSummary{}, err
	}
	if len(rows) == 0 {
		return ReviewSummary{}, nil
	}
	return ReviewSummary{Count: rows[0].Count, Average: rows[0].Average}, nil
}

func (m *MongoStore) CreateWaiterCall(ctx context.Context, call *models.WaiterCall) error {
	_, err := m.col(colWaiterCalls).InsertOne(ctx, call)
	return mongoErr(err)
}

func (m *MongoStore) FindPendingWaiterCall(ctx context.Context, tableID string) (*models.WaiterCall, error) {
	var call models.WaiterCall
	err := mongoErr(m.col(colWaiterCalls).FindOne(ctx,
		bson.M{"table_id": tableID, "status": models.WaiterCallPending},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	).Decode(&call))
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (m *MongoStore) ListWaiterCalls(ctx context.Context, tenantID string, status models.WaiterCallStatus) ([]models.WaiterCall, error) {
	q := bson.M{"restaurant_id": tenantID}
	if status != "" {
		q["status"] = status
	}
	calls := []models.WaiterCall{}
	err := m.findAll(ctx, colWaiterCalls, q, newest(), &calls)
	return calls, err
}

func (m *MongoStore) ResolveWaiterCall(ctx context.Context, tenantID, id string, at time.Time) (*models.WaiterCall, bool, error) {
	res, err := m.col(colWaiterCalls).UpdateOne(ctx,
		bson.M{"_id": id, "restaurant_id": tenantID, "status": models.WaiterCallPending},
		bson.M{"$set": bson.M{"status": models.WaiterCallResolved, "resolved_at": at}},
	)
	if err != nil {
		return nil, false, err
	}
	var call models.WaiterCall
	if err := m.findOne(ctx, colWaiterCalls, bson.M{"_id": id, "restaurant_id": tenantID}, &call); err != nil {
		return nil, false, err
	}
	return &call, res.ModifiedCount > 0, nil
}
