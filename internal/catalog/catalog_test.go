package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/evanazhr/simple-pos-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))
	return db
}

func TestCreateCategory(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	cat, err := svc.CreateCategory(context.Background(), "  coffee  ")
	require.NoError(t, err)
	require.Equal(t, "coffee", cat.Name)
	require.NotZero(t, cat.ID)

	_, err = svc.CreateCategory(context.Background(), "coffee")
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateCategory(context.Background(), "ab")
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCategory(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	cat, err := svc.CreateCategory(context.Background(), "coffee")
	require.NoError(t, err)
	other, err := svc.CreateCategory(context.Background(), "tea")
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(context.Background(), cat.ID, "espresso")
	require.NoError(t, err)
	require.Equal(t, "espresso", updated.Name)

	_, err = svc.UpdateCategory(context.Background(), other.ID, "espresso")
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateCategory(context.Background(), 9999, "anything")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	cat, err := svc.CreateCategory(context.Background(), "coffee")
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "americano", Price: 10000, CategoryID: cat.ID,
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(context.Background(), cat.ID)
	require.ErrorIs(t, err, ErrConflict)

	// Still listed afterwards.
	cats, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
}

func TestDeleteCategory(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	cat, err := svc.CreateCategory(context.Background(), "empty")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(context.Background(), cat.ID))
	require.ErrorIs(t, svc.DeleteCategory(context.Background(), cat.ID), ErrNotFound)
}

func TestListCategoriesDerivesProductCount(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	coffee, err := svc.CreateCategory(context.Background(), "coffee")
	require.NoError(t, err)
	tea, err := svc.CreateCategory(context.Background(), "tea")
	require.NoError(t, err)

	for _, name := range []string{"americano", "latte"} {
		_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
			Name: name, Price: 10000, CategoryID: coffee.ID,
		})
		require.NoError(t, err)
	}

	cats, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)

	byID := map[uint]CategorySummary{}
	for _, c := range cats {
		byID[c.ID] = c
	}
	require.Equal(t, int64(2), byID[coffee.ID].ProductCount)
	require.Equal(t, int64(0), byID[tea.ID].ProductCount)
}

func TestCreateProductValidation(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	cat, err := svc.CreateCategory(context.Background(), "coffee")
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "cheap", Price: 999, CategoryID: cat.ID,
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "   ", Price: 10000, CategoryID: cat.ID,
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "broken image", Price: 10000, ImageURL: "not a url", CategoryID: cat.ID,
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "orphan", Price: 10000, CategoryID: 9999,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProduct(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	cat, err := svc.CreateCategory(context.Background(), "coffee")
	require.NoError(t, err)

	prod, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:       "americano",
		Price:      10000,
		ImageURL:   "https://cdn.example.com/americano.png",
		CategoryID: cat.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, prod.ID)
	require.NotNil(t, prod.Category)
	require.Equal(t, "coffee", prod.Category.Name)

	got, err := svc.GetProduct(context.Background(), prod.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10000), got.Price)
	require.NotNil(t, got.Category)
}

func TestListProductsPagination(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	cat, err := svc.CreateCategory(context.Background(), "coffee")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = svc.CreateProduct(context.Background(), CreateProductRequest{
			Name: "p" + string(rune('a'+i)), Price: 10000, CategoryID: cat.ID,
		})
		require.NoError(t, err)
	}

	page, total, err := svc.ListProducts(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, page, 2)

	last, total, err := svc.ListProducts(context.Background(), 4, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, last, 1)
	require.NotEqual(t, page[0].ID, last[0].ID)
}

func TestGetProductNotFound(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}
	_, err := svc.GetProduct(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}
