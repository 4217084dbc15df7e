package services

import (
	"context"
	"testing"
	"time"

	"github.com/canoasgas/pedidos-api/models"
	"github.com/canoasgas/pedidos-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createLedgerOrder(t *testing.T, ledger *OrderLedger, client *models.Client, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		Channel:         "DISK ENTREGA",
		Product:         "Gás 13kls",
		DeliveryPerson:  "João",
		PaymentMethod:   "Pix",
		Value:           decimal.RequireFromString("110.00"),
		ValueFormatted:  "110,00",
		ClientID:        client.ID,
		SnapshotName:    client.Name,
		SnapshotPhone:   client.Phone,
		SnapshotAddress: client.Address,
		CreatedAt:       createdAt,
	}
	require.NoError(t, ledger.Create(context.Background(), order))
	return order
}

func TestOrderLedgerCreateRequiresClient(t *testing.T) {
	ledger := NewOrderLedger(testutil.NewTestDB(t))

	err := ledger.Create(context.Background(), &models.Order{Channel: "PORTARIA"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "client_id", validationErr.Field)
}

func TestOrderLedgerCreateDoesNotTouchClient(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	ledger := NewOrderLedger(db)
	client := testutil.CreateClient(t, db, "Maria", "1111", "Rua A, 10")

	order := &models.Order{
		Channel:         "PORTARIA",
		Product:         "Água Mineral",
		DeliveryPerson:  models.NotInformed,
		PaymentMethod:   "Dinheiro",
		Value:           decimal.RequireFromString("12.5"),
		ValueFormatted:  "12,50",
		ClientID:        client.ID,
		Client:          models.Client{ID: client.ID, Name: "Outro Nome", Phone: "0", Address: "Outro"},
		SnapshotName:    "Maria",
		SnapshotPhone:   "1111",
		SnapshotAddress: "Rua A, 10",
	}
	require.NoError(t, ledger.Create(ctx, order))

	var stored models.Client
	require.NoError(t, db.First(&stored, client.ID).Error)
	assert.Equal(t, "Maria", stored.Name)

	got, err := ledger.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Client.Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.Value))
	assert.Nil(t, got.Info)
}

func TestOrderLedgerAttachMessage(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	ledger := NewOrderLedger(db)
	client := testutil.CreateClient(t, db, "Maria", "1111", "Rua A, 10")
	order := createLedgerOrder(t, ledger, client, time.Now())

	msg, err := ledger.AttachMessage(ctx, order.ID, models.MessageKindClient, "")
	require.NoError(t, err)
	assert.Nil(t, msg, "empty content stores nothing")

	msg, err = ledger.AttachMessage(ctx, order.ID, models.MessageKindDelivery, "ticket")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.NotZero(t, msg.ID)

	_, err = ledger.AttachMessage(ctx, order.ID, models.MessageKindDelivery, "another ticket")
	assert.ErrorIs(t, err, ErrConflict, "one message per kind")

	got, err := ledger.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Nil(t, got.ClientMessage())
	assert.Equal(t, "ticket", got.DeliveryMessage().Content)
}

func TestOrderLedgerGetUnknown(t *testing.T) {
	ledger := NewOrderLedger(testutil.NewTestDB(t))

	_, err := ledger.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderLedgerList(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	ledger := NewOrderLedger(db)

	maria := testutil.CreateClient(t, db, "Maria", "1111", "Rua A, 10")
	jose := testutil.CreateClient(t, db, "José", "2222", "Avenida Brasil, 500")
	agata := testutil.CreateClient(t, db, "Ágata", "3333", "Rua Ébano, 5")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := createLedgerOrder(t, ledger, agata, base.Add(-time.Hour))
	first := createLedgerOrder(t, ledger, maria, base)
	second := createLedgerOrder(t, ledger, jose, base.Add(time.Hour))
	third := createLedgerOrder(t, ledger, maria, base.Add(2*time.Hour))

	// the client is renamed after its orders were taken
	require.NoError(t, db.Model(maria).Update("name", "Maria Souza").Error)

	ids := func(orders []models.Order) []uint {
		out := make([]uint, 0, len(orders))
		for _, o := range orders {
			out = append(out, o.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter string
		limit  int
		want   []uint
	}{
		{name: "newest first", want: []uint{third.ID, second.ID, first.ID, oldest.ID}},
		{name: "limit", limit: 2, want: []uint{third.ID, second.ID}},
		{name: "snapshot name", filter: "josé", want: []uint{second.ID}},
		{name: "snapshot address", filter: "brasil", want: []uint{second.ID}},
		{name: "current client name", filter: "souza", want: []uint{third.ID, first.ID}},
		{name: "trimmed filter", filter: "  rua a  ", want: []uint{third.ID, first.ID}},
		{name: "no match", filter: "inexistente", want: []uint{}},
		{name: "accented capital in name", filter: "Ágata", want: []uint{oldest.ID}},
		{name: "accented capital in address", filter: "Ébano", want: []uint{oldest.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := ledger.List(ctx, tt.filter, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(orders))
		})
	}

	orders, err := ledger.List(ctx, "souza", 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Maria", orders[0].SnapshotName, "snapshot is not rewritten")
	assert.Equal(t, "Maria Souza", orders[0].Client.Name)
}

func TestOrderLedgerListSameTimestampFallsBackToID(t *testing.T) {
	db := testutil.NewTestDB(t)
	ledger := NewOrderLedger(db)
	client := testutil.CreateClient(t, db, "Maria", "1111", "Rua A, 10")

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := createLedgerOrder(t, ledger, client, at)
	b := createLedgerOrder(t, ledger, client, at)

	orders, err := ledger.List(context.Background(), "", MaxListLimit+50)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, b.ID, orders[0].ID)
	assert.Equal(t, a.ID, orders[1].ID)
}

func TestOrderLedgerDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	ledger := NewOrderLedger(db)
	client := testutil.CreateClient(t, db, "Maria", "1111", "Rua A, 10")

	order := createLedgerOrder(t, ledger, client, time.Now())
	_, err := ledger.AttachMessage(ctx, order.ID, models.MessageKindClient, "confirmation")
	require.NoError(t, err)
	_, err = ledger.AttachMessage(ctx, order.ID, models.MessageKindDelivery, "ticket")
	require.NoError(t, err)

	require.NoError(t, ledger.Delete(ctx, order.ID))

	_, err = ledger.Get(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var messages int64
	require.NoError(t, db.Model(&models.Message{}).Where("order_id = ?", order.ID).Count(&messages).Error)
	assert.Zero(t, messages)

	var stored models.Client
	assert.NoError(t, db.First(&stored, client.ID).Error, "client survives its orders")

	err = ledger.Delete(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderLedgerWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	ledger := NewOrderLedger(db)
	client := testutil.CreateClient(t, db, "Maria", "1111", "Rua A, 10")

	err := db.Transaction(func(tx *gorm.DB) error {
		createLedgerOrder(t, ledger.WithTx(tx), client, time.Now())
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	orders, err := ledger.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
