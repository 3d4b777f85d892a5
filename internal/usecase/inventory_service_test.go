package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshtrack/backend/internal/domain"
)

// mockItemRepository implements domain.ItemRepository in memory
type mockItemRepository struct {
	items   map[uuid.UUID]*domain.FoodItem
	failure error
}

func newMockItemRepository() *mockItemRepository {
	return &mockItemRepository{items: make(map[uuid.UUID]*domain.FoodItem)}
}

func (m *mockItemRepository) Create(_ context.Context, item *domain.FoodItem) error {
	if m.failure != nil {
		return m.failure
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockItemRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.FoodItem, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockItemRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.FoodItem, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	var out []domain.FoodItem
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockItemRepository) Update(_ context.Context, item *domain.FoodItem) error {
	if m.failure != nil {
		return m.failure
	}
	if _, ok := m.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	if m.failure != nil {
		return m.failure
	}
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func newInventoryServiceAt(repo domain.ItemRepository, today time.Time) *InventoryService {
	svc := NewInventoryService(repo)
	svc.now = func() time.Time { return today }
	return svc
}

func TestInventoryService_Create(t *testing.T) {
	repo := newMockItemRepository()
	svc := newInventoryServiceAt(repo, parserToday)
	userID := uuid.New()

	t.Run("valid item", func(t *testing.T) {
		item, err := svc.Create(context.Background(), userID, CreateItemInput{
			Name:       "  Fresh Milk 500ml  ",
			ExpiryDate: day(2024, time.June, 20),
		})

		require.NoError(t, err)
		assert.Equal(t, "Fresh Milk 500ml", item.Name)
		assert.Equal(t, 1, item.Quantity)
		assert.Equal(t, domain.DestinationKeep, item.Destination)
		assert.Equal(t, domain.StatusSafe, item.Status)
		assert.Equal(t, 10, item.DaysLeft)
		assert.Contains(t, repo.items, item.ID)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.Create(context.Background(), userID, CreateItemInput{
			ExpiryDate: day(2024, time.June, 20),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("missing expiry date", func(t *testing.T) {
		_, err := svc.Create(context.Background(), userID, CreateItemInput{Name: "Milk"})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestInventoryService_Ownership(t *testing.T) {
	repo := newMockItemRepository()
	svc := newInventoryServiceAt(repo, parserToday)
	owner := uuid.New()
	stranger := uuid.New()

	item, err := svc.Create(context.Background(), owner, CreateItemInput{
		Name:       "Cheddar Cheese",
		ExpiryDate: day(2024, time.July, 1),
	})
	require.NoError(t, err)

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.Get(context.Background(), owner, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		_, err := svc.Get(context.Background(), stranger, item.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := svc.Delete(context.Background(), stranger, item.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.Get(context.Background(), owner, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestInventoryService_Update(t *testing.T) {
	repo := newMockItemRepository()
	svc := newInventoryServiceAt(repo, parserToday)
	userID := uuid.New()

	item, err := svc.Create(context.Background(), userID, CreateItemInput{
		Name:       "Orange Juice",
		ExpiryDate: day(2024, time.June, 20),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), userID, item.ID, CreateItemInput{
		Name:       "Orange Juice 1L",
		Quantity:   3,
		ExpiryDate: day(2024, time.June, 12),
	})

	require.NoError(t, err)
	assert.Equal(t, "Orange Juice 1L", updated.Name)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, domain.StatusUseSoon, updated.Status)
	assert.Equal(t, 2, updated.DaysLeft)

	t.Run("zero-value fields keep previous values", func(t *testing.T) {
		again, err := svc.Update(context.Background(), userID, item.ID, CreateItemInput{})
		require.NoError(t, err)
		assert.Equal(t, "Orange Juice 1L", again.Name)
		assert.Equal(t, 3, again.Quantity)
	})
}

func TestInventoryService_Delete(t *testing.T) {
	repo := newMockItemRepository()
	svc := newInventoryServiceAt(repo, parserToday)
	userID := uuid.New()

	item, err := svc.Create(context.Background(), userID, CreateItemInput{
		Name:       "Spinach",
		ExpiryDate: day(2024, time.June, 11),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID, item.ID))

	_, err = svc.Get(context.Background(), userID, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInventoryService_Alerts(t *testing.T) {
	repo := newMockItemRepository()
	svc := newInventoryServiceAt(repo, parserToday)
	userID := uuid.New()

	seed := []CreateItemInput{
		{Name: "Expired Yogurt", ExpiryDate: day(2024, time.June, 8)},
		{Name: "Milk Due Today", ExpiryDate: day(2024, time.June, 10)},
		{Name: "Bread", ExpiryDate: day(2024, time.June, 13)},
		{Name: "Canned Beans", ExpiryDate: day(2025, time.June, 1)},
	}
	for _, input := range seed {
		_, err := svc.Create(context.Background(), userID, input)
		require.NoError(t, err)
	}

	summary, err := svc.Alerts(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, summary.Expired, 1)
	assert.Equal(t, "Expired Yogurt", summary.Expired[0].Name)
	require.Len(t, summary.UseSoon, 2)
}
