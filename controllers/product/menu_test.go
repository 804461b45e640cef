package productcontroller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/store"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeMenu struct {
	categories []models.Category
	extras     []models.Category
	items      map[uint]models.MenuItem
	addons     []models.Addon
	combos     []models.Combo
}

func (f *fakeMenu) Menu(context.Context) ([]models.Category, error) { return f.categories, nil }
func (f *fakeMenu) AddonCategories(context.Context) ([]models.Category, error) {
	return f.extras, nil
}

func (f *fakeMenu) Item(_ context.Context, id uint) (models.MenuItem, error) {
	it, ok := f.items[id]
	if !ok {
		return models.MenuItem{}, store.ErrNotFound
	}
	return it, nil
}

func (f *fakeMenu) ItemsByIDs(_ context.Context, ids []uint) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeMenu) AddonsFor(_ context.Context, item models.MenuItem) ([]models.Addon, error) {
	var out []models.Addon
	for _, a := range f.addons {
		if a.AppliesTo(item) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeMenu) Specials(context.Context) ([]models.TodaySpecial, []models.MenuItem, error) {
	return nil, nil, nil
}

func (f *fakeMenu) Combos(context.Context) ([]models.Combo, error) { return f.combos, nil }

var (
	latte = models.MenuItem{ID: 1, CategoryID: 7, Name: "Latte", Variants: []models.ItemVariant{
		{ID: 10, Size: "Regular", Price: 10000, IsDefault: true},
		{ID: 11, Size: "Large", Price: 14000},
	}}
	brownie = models.MenuItem{ID: 2, CategoryID: 8, Name: "Brownie", Variants: []models.ItemVariant{
		{ID: 20, Price: 6000},
	}}
)

func newFakeMenu() *fakeMenu {
	return &fakeMenu{
		categories: []models.Category{
			{ID: 7, Name: "Coffee", Items: []models.MenuItem{latte}},
			{ID: 8, Name: "Bakes", Items: []models.MenuItem{brownie}},
		},
		items: map[uint]models.MenuItem{1: latte, 2: brownie},
		addons: []models.Addon{
			{ID: 100, Name: "Extra shot", Price: 2000, IsGlobal: true},
			{ID: 101, Name: "Oat milk", Price: 3000, CategoryIDs: pq.Int64Array{7}},
			{ID: 102, Name: "Ice cream", Price: 4000, ItemIDs: pq.Int64Array{2}},
		},
		combos: []models.Combo{{ID: 5, Name: "Coffee & cake", Price: 14000, ItemIDs: pq.Int64Array{1, 2}}},
	}
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPublicMenu(t *testing.T) {
	gin.SetMode(gin.TestMode)
	menu := newFakeMenu()
	r := gin.New()
	r.GET("/menu", GetMenu(menu))
	r.GET("/menu/items/:id", GetItem(menu))
	r.GET("/menu/items/:id/addons", GetItemAddons(menu))
	r.GET("/menu/combos", GetCombos(menu))
	r.GET("/menu/specials", GetSpecials(menu))

	w := get(t, r, "/menu")
	require.Equal(t, http.StatusOK, w.Code)
	var cats []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	assert.Len(t, cats, 2)

	w = get(t, r, "/menu/items/1/addons")
	require.Equal(t, http.StatusOK, w.Code)
	var addons []models.Addon
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addons))
	var names []string
	for _, a := range addons {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Extra shot", "Oat milk"}, names)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/menu/items/99").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/menu/items/zero/addons").Code)

	w = get(t, r, "/menu/combos")
	require.Equal(t, http.StatusOK, w.Code)
	var combos []ComboView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &combos))
	require.Len(t, combos, 1)
	assert.Equal(t, int64(16000), combos[0].IndividualTotal)
	assert.Equal(t, int64(2000), combos[0].Saving)
	assert.Equal(t, "20.00", combos[0].SavingRupees)

	w = get(t, r, "/menu/specials")
	assert.JSONEq(t, `{"specials":[],"items":[]}`, w.Body.String())
}

func TestNewComboView_NoNegativeSaving(t *testing.T) {
	v := NewComboView(models.Combo{Price: 99999}, []models.MenuItem{brownie})
	assert.Equal(t, int64(6000), v.IndividualTotal)
	assert.Equal(t, int64(0), v.Saving)
}

func TestParseVariants(t *testing.T) {
	vs, err := parseVariants(`[{"size":"Regular","price":"120"},{"size":"Large","variant":"Iced","price":"149.50"}]`)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, int64(12000), vs[0].Price)
	assert.True(t, vs[0].IsDefault)
	assert.Equal(t, int64(14950), vs[1].Price)
	assert.False(t, vs[1].IsDefault)
	assert.Equal(t, "Iced", vs[1].Variant)

	for _, bad := range []string{"", "[]", "not json", `[{"price":"-1"}]`, `[{"price":"abc"}]`} {
		_, err := parseVariants(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList(" 3, 5,,9 ")
	require.NoError(t, err)
	assert.Equal(t, pq.Int64Array{3, 5, 9}, ids)

	ids, err = parseIDList("")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	_, err = parseIDList("1,x")
	assert.Error(t, err)
	_, err = parseIDList("-4")
	assert.Error(t, err)
}

func TestMenuWorkbookRoundTrip(t *testing.T) {
	menu := newFakeMenu()
	file, err := MenuWorkbook(menu.categories)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	sheet := book.Sheets[0]
	bad := sheet.AddRow()
	bad.AddCell().SetValue("Bakes")
	bad.AddCell().SetValue("Muffin")
	for i := 0; i < 4; i++ {
		bad.AddCell().SetValue("")
	}
	bad.AddCell().SetValue("free")

	items, skipped := parseMenuSheet(sheet)
	assert.Equal(t, 1, skipped)
	require.Len(t, items, 2)

	assert.Equal(t, "Coffee", items[0].Category)
	assert.Equal(t, "Latte", items[0].Name)
	require.Len(t, items[0].Variants, 2)
	assert.Equal(t, int64(10000), items[0].Variants[0].Price)
	assert.True(t, items[0].Variants[0].IsDefault)
	assert.Equal(t, "Large", items[0].Variants[1].Size)
	assert.False(t, items[0].Variants[1].IsDefault)

	assert.Equal(t, int64(6000), items[1].Variants[0].Price)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUpdateItemFlags(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	r := gin.New()
	r.PATCH("/admin/items/:id/flags", UpdateItemFlags(db))

	patch := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	mock.ExpectExec(`UPDATE "menu_items" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	w := patch("/admin/items/1/flags", `{"is_out_of_stock":true,"bogus":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	mock.ExpectExec(`UPDATE "menu_items" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	w = patch("/admin/items/9/flags", `{"is_special":false}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = patch("/admin/items/1/flags", `{"bogus":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
