package products

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/riderhub/riderhub-backend/pkg/db/dbtest"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/metrics"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/storage"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func pngUpload() *ImageUpload {
	return &ImageUpload{Filename: "helmet.png", Body: bytes.NewReader(pngBytes)}
}

// flakyStore wraps MemoryStore and fails selected calls.
type flakyStore struct {
	*storage.MemoryStore
	failUpload bool
	failDelete bool
}

func (f *flakyStore) Upload(ctx context.Context, filename string, r io.Reader) (*storage.Asset, error) {
	if f.failUpload {
		return nil, errors.New("bucket unreachable")
	}
	return f.MemoryStore.Upload(ctx, filename, r)
}

func (f *flakyStore) Delete(ctx context.Context, publicID string) error {
	if f.failDelete {
		return errors.New("bucket unreachable")
	}
	return f.MemoryStore.Delete(ctx, publicID)
}

type fixture struct {
	svc    Service
	db     *gorm.DB
	store  *flakyStore
	reg    *prometheus.Registry
	userID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	user := &models.User{Name: "Supplier", Email: "supplier@riderhub.co.ke", PasswordHash: "x", UserType: enums.UserTypeSupplier}
	require.NoError(t, client.DB().Create(user).Error)

	store := &flakyStore{MemoryStore: storage.NewMemoryStore("https://cdn.riderhub.test", "products", 1<<20)}
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(client.DB()),
		Images:  store,
		Metrics: metrics.NewImageMetrics(reg),
	})
	require.NoError(t, err)
	return &fixture{svc: svc, db: client.DB(), store: store, reg: reg, userID: user.ID}
}

func (f *fixture) helmet() CreateProductInput {
	return CreateProductInput{
		Name:          "Helmet",
		Description:   "Full face helmet",
		Price:         types.MoneyFromFloat(20.00),
		Category:      enums.ProductCategoryHelmet,
		StockQuantity: 5,
		SupplierID:    f.userID,
		Image:         pngUpload(),
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.helmet())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.ImagePublicID)
	assert.Equal(t, "https://cdn.riderhub.test/"+created.ImagePublicID, created.ImageURL)
	assert.True(t, f.store.Has(created.ImagePublicID))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Helmet", got.Name)
	assert.True(t, got.Price.Equal(types.MoneyFromInt(20)))
	assert.Equal(t, enums.ProductCategoryHelmet, got.Category)
	assert.Equal(t, 5, got.StockQuantity)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, f.userID, *got.SupplierID)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.helmet()
	in.Price = types.MoneyFromFloat(-1)
	_, err := f.svc.Create(ctx, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	in = f.helmet()
	in.StockQuantity = -3
	_, err = f.svc.Create(ctx, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	in = f.helmet()
	in.Category = "scooter"
	_, err = f.svc.Create(ctx, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	in = f.helmet()
	in.SupplierID = 0
	_, err = f.svc.Create(ctx, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	assert.Zero(t, f.store.Len())
}

func TestCreateUploadFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failUpload = true

	_, err := f.svc.Create(context.Background(), f.helmet())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUpload))
	assert.Equal(t, float64(1), counterValue(t, f.reg, "upload", "failure"))
}

func TestCreateRemovesImageWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	in := f.helmet()
	in.SupplierID = f.userID + 100 // violates the supplier foreign key

	_, err := f.svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDatabase))
	assert.Zero(t, f.store.Len())

	var n int64
	require.NoError(t, f.db.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateCombinesErrorsWhenCleanupFails(t *testing.T) {
	f := newFixture(t)
	f.store.failDelete = true
	in := f.helmet()
	in.SupplierID = f.userID + 100

	_, err := f.svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove uploaded image")
	assert.Equal(t, 1, f.store.Len())
}

func TestUpdateReplacesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.helmet())
	require.NoError(t, err)
	oldID := created.ImagePublicID

	stock := 9
	updated, err := f.svc.Update(ctx, created.ID, UpdateProductInput{StockQuantity: &stock, Image: pngUpload()})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.StockQuantity)
	assert.NotEqual(t, oldID, updated.ImagePublicID)
	assert.False(t, f.store.Has(oldID))
	assert.True(t, f.store.Has(updated.ImagePublicID))
}

func TestUpdateUnknownProduct(t *testing.T) {
	f := newFixture(t)
	name := "Gloves"
	_, err := f.svc.Update(context.Background(), 999, UpdateProductInput{Name: &name, Image: pngUpload()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Zero(t, f.store.Len())
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.helmet())
	require.NoError(t, err)

	// a failing image delete does not block the row delete
	f.store.failDelete = true
	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = f.svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSearchProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	helmet := f.helmet()
	_, err := f.svc.Create(ctx, helmet)
	require.NoError(t, err)

	jacket := f.helmet()
	jacket.Name = "Mesh Jacket"
	jacket.Description = "Summer riding 100% mesh"
	jacket.Category = enums.ProductCategoryJacket
	jacket.Price = types.MoneyFromFloat(45.50)
	jacket.Image = pngUpload()
	_, err = f.svc.Create(ctx, jacket)
	require.NoError(t, err)

	term := "HELM"
	page, err := f.svc.Search(ctx, SearchQuery{Name: &term}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Helmet", page.Items[0].Name)

	pct := "100%"
	page, err = f.svc.Search(ctx, SearchQuery{Description: &pct}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mesh Jacket", page.Items[0].Name)

	price := types.MoneyFromFloat(45.5)
	page, err = f.svc.Search(ctx, SearchQuery{Price: &price}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	category := enums.ProductCategoryHelmet
	page, err = f.svc.Search(ctx, SearchQuery{Category: &category}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	page, err = f.svc.Search(ctx, SearchQuery{}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func counterValue(t *testing.T, reg *prometheus.Registry, op, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "product_image_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["op"] == op && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
