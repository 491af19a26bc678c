package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"qrmenu-backend/models"
)

const mongoTestDB = "qrmenu"

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func mongoOrderDoc(status models.OrderStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: "order-1"},
		{Key: "restaurant_id", Value: "tenant-1"},
		{Key: "status", Value: string(status)},
		{Key: "payment_status", Value: string(models.PaymentPending)},
		{Key: "total_amount", Value: 25.0},
	}
}

// sentCommands lists "<command> <collection>" in the order the driver sent them.
func sentCommands(mt *mtest.T) []string {
	var out []string
	for _, e := range mt.GetAllStartedEvents() {
		coll, _ := e.Command.Lookup(e.CommandName).StringValueOK()
		out = append(out, e.CommandName+" "+coll)
	}
	return out
}

func TestMongoStore_TransitionOrder(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()
	ordersNS := mongoTestDB + "." + colOrders
	before := []models.OrderStatus{models.OrderPending, models.OrderPreparing}

	mt.Run("applied", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: mongoOrderDoc(models.OrderReady)}))

		order, err := s.TransitionOrder(ctx, "tenant-1", "order-1", before, OrderUpdate{Status: models.OrderReady, UpdatedAt: t0})
		require.NoError(mt, err)
		assert.Equal(mt, models.OrderReady, order.Status)

		query := mt.GetStartedEvent().Command.Lookup("query").Document()
		assert.Equal(mt, "tenant-1", query.Lookup("restaurant_id").StringValue())
		statuses, err := query.Lookup("status", "$in").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, statuses, 2)
		_, err = query.LookupErr("payment_status")
		assert.Error(mt, err)
	})

	mt.Run("payment guard joins the filter", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: mongoOrderDoc(models.OrderCompleted)}))

		_, err := s.TransitionOrder(ctx, "tenant-1", "order-1", nil, OrderUpdate{
			Status:        models.OrderCompleted,
			PaymentStatus: models.PaymentPaid,
			WhilePayment:  models.PaymentPending,
			UpdatedAt:     t0,
		})
		require.NoError(mt, err)

		query := mt.GetStartedEvent().Command.Lookup("query").Document()
		assert.Equal(mt, "pending", query.Lookup("payment_status").StringValue())
		_, err = query.LookupErr("status")
		assert.Error(mt, err)
	})

	mt.Run("lost race", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch, mongoOrderDoc(models.OrderCompleted)),
		)

		_, err := s.TransitionOrder(ctx, "tenant-1", "order-1", before, OrderUpdate{Status: models.OrderReady, UpdatedAt: t0})
		assert.ErrorIs(mt, err, ErrConflict)
		assert.Equal(mt, []string{"findAndModify orders", "find orders"}, sentCommands(mt))
	})

	mt.Run("missing", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch),
		)

		_, err := s.TransitionOrder(ctx, "tenant-1", "order-1", before, OrderUpdate{Status: models.OrderReady, UpdatedAt: t0})
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoStore_DeleteTenant(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()
	tenantsNS := mongoTestDB + "." + colTenants

	mt.Run("children before tenant", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tenantsNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "tenant-1"}, {Key: "name", Value: "bistro"}}))
		for i := 0; i < 8; i++ {
			mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		}

		require.NoError(mt, s.DeleteTenant(ctx, "tenant-1"))
		assert.Equal(mt, []string{
			"find restaurants",
			"delete orders",
			"delete menu_items",
			"delete menu_categories",
			"delete tables",
			"delete reviews",
			"delete waiter_calls",
			"delete accounts",
			"delete restaurants",
		}, sentCommands(mt))
	})

	mt.Run("children are scoped to the tenant", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tenantsNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "tenant-1"}}))
		for i := 0; i < 8; i++ {
			mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		}
		require.NoError(mt, s.DeleteTenant(ctx, "tenant-1"))

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 9)
		for _, e := range events[1:8] {
			deletes, err := e.Command.Lookup("deletes").Array().Values()
			require.NoError(mt, err)
			require.Len(mt, deletes, 1)
			assert.Equal(mt, "tenant-1", deletes[0].Document().Lookup("q", "restaurant_id").StringValue())
		}
		last, err := events[8].Command.Lookup("deletes").Array().Values()
		require.NoError(mt, err)
		assert.Equal(mt, "tenant-1", last[0].Document().Lookup("q", "_id").StringValue())
	})

	mt.Run("unknown tenant deletes nothing", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, tenantsNS, mtest.FirstBatch))

		assert.ErrorIs(mt, s.DeleteTenant(ctx, "missing"), ErrNotFound)
		assert.Equal(mt, []string{"find restaurants"}, sentCommands(mt))
	})
}

func TestMongoStore_DuplicateKeys(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()
	duplicate := mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error collection: qrmenu.accounts index: email_1",
	})

	mt.Run("account email", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(duplicate)

		err := s.CreateAccount(ctx, account("taken@test.com", models.RoleOwner, ""))
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("tenant creation rolls back inserted accounts", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		owner := account("owner@test.com", models.RoleOwner, "tenant-1")
		kitchen := account("taken@test.com", models.RoleKitchen, "tenant-1")
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			duplicate,
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		err := s.CreateTenant(ctx, &models.Tenant{ID: "tenant-1", Name: "bistro", OwnerID: owner.ID},
			[]*models.Account{owner, kitchen})
		assert.ErrorIs(mt, err, ErrDuplicate)
		assert.Equal(mt, []string{"insert accounts", "insert accounts", "delete accounts"}, sentCommands(mt))

		events := mt.GetAllStartedEvents()
		deletes, err := events[2].Command.Lookup("deletes").Array().Values()
		require.NoError(mt, err)
		ids, err := deletes[0].Document().Lookup("q", "_id", "$in").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, ids, 1)
		assert.Equal(mt, owner.ID, ids[0].StringValue())
	})
}

func TestMongoStore_UpdatePasswordMissing(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("no match", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		assert.ErrorIs(mt, s.UpdatePassword(context.Background(), "missing", "hash"), ErrNotFound)
	})
}

func TestMongoStore_Summaries(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("orders grouped by tenant and status", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mongoTestDB+"."+colOrders, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: bson.D{{Key: "tenant", Value: "tenant-1"}, {Key: "status", Value: "completed"}}},
				{Key: "count", Value: int64(2)},
				{Key: "revenue", Value: 40.5},
			},
			bson.D{
				{Key: "_id", Value: bson.D{{Key: "tenant", Value: "tenant-1"}, {Key: "status", Value: "pending"}}},
				{Key: "count", Value: int64(1)},
				{Key: "revenue", Value: 12.0},
			},
		))

		rows, err := s.SummarizeOrders(ctx, OrderFilter{TenantID: "tenant-1"})
		require.NoError(mt, err)
		assert.Equal(mt, []OrderSummary{
			{TenantID: "tenant-1", Status: models.OrderCompleted, Count: 2, Revenue: 40.5},
			{TenantID: "tenant-1", Status: models.OrderPending, Count: 1, Revenue: 12},
		}, rows)

		stages, err := mt.GetStartedEvent().Command.Lookup("pipeline").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, stages, 2)
		assert.Equal(mt, "tenant-1", stages[0].Document().Lookup("$match", "restaurant_id").StringValue())
	})

	mt.Run("no reviews", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mongoTestDB+"."+colReviews, mtest.FirstBatch))

		summary, err := s.SummarizeReviews(ctx, "tenant-1")
		require.NoError(mt, err)
		assert.Equal(mt, ReviewSummary{}, summary)
	})

	mt.Run("review average", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mongoTestDB+"."+colReviews, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "count", Value: int64(4)}, {Key: "average", Value: 4.5}}))

		summary, err := s.SummarizeReviews(ctx, "")
		require.NoError(mt, err)
		assert.Equal(mt, ReviewSummary{Count: 4, Average: 4.5}, summary)
	})
}

func TestMongoStore_ResolveWaiterCall(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()
	callsNS := mongoTestDB + "." + colWaiterCalls
	resolvedDoc := bson.D{
		{Key: "_id", Value: "call-1"},
		{Key: "restaurant_id", Value: "tenant-1"},
		{Key: "status", Value: string(models.WaiterCallResolved)},
		{Key: "resolved_at", Value: t0},
	}

	mt.Run("first resolve", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, callsNS, mtest.FirstBatch, resolvedDoc),
		)

		call, changed, err := s.ResolveWaiterCall(ctx, "tenant-1", "call-1", t0)
		require.NoError(mt, err)
		assert.True(mt, changed)
		assert.Equal(mt, models.WaiterCallResolved, call.Status)
	})

	mt.Run("already resolved", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, callsNS, mtest.FirstBatch, resolvedDoc),
		)

		call, changed, err := s.ResolveWaiterCall(ctx, "tenant-1", "call-1", t0)
		require.NoError(mt, err)
		assert.False(mt, changed)
		require.NotNil(mt, call.ResolvedAt)
		assert.True(mt, call.ResolvedAt.Equal(t0))
	})

	mt.Run("other tenant", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mongoTestDB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, callsNS, mtest.FirstBatch),
		)

		_, _, err := s.ResolveWaiterCall(ctx, "tenant-2", "call-1", t0)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
