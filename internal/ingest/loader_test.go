package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfaware/wastewatch/internal/datagen"
)

func TestLoadMapsColumns(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Store_ID,Product,Category,Sales,Stock,Waste,Price",
		"2024-03-04,2,Milk,Dairy,80,100,20,2.50",
		"2024/03/05,2,Bread,Bakery,30,40,10,1.20",
	}, "\n")

	rows, err := NewLoader(1).Load(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	milk := rows[0]
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), milk.Date)
	assert.Equal(t, 2, milk.StoreID)
	assert.Equal(t, "Milk", milk.Product)
	assert.Equal(t, "Dairy", milk.Category)
	assert.Equal(t, 80.0, milk.Sales)
	assert.Equal(t, 100.0, milk.Stock)
	assert.Equal(t, 20.0, milk.Waste)
	assert.InDelta(t, 20.0, milk.WastePercentage, 1e-9)
	assert.Equal(t, 2.5, milk.Price)
	assert.Equal(t, 0, milk.DayOfWeek) // 2024-03-04 is a Monday
	assert.Equal(t, 14, milk.ShelfLifeDays)
	assert.True(t, milk.Perishable)

	bread := rows[1]
	assert.Equal(t, 5, bread.ShelfLifeDays)
}

func TestLoadDefaultStoreID(t *testing.T) {
	csvData := strings.Join([]string{
		"date,product,category,sales,stock,waste,price",
		"2024-03-04,Milk,Dairy,80,100,20,2.50",
	}, "\n")

	rows, err := NewLoader(9).Load(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 9, rows[0].StoreID)
}

func TestLoadUnknownCategoryFallsBack(t *testing.T) {
	csvData := strings.Join([]string{
		"date,product,category,sales,stock,waste,price",
		"2024-03-04,Batteries,Electronics,5,10,0,9.99",
	}, "\n")

	rows, err := NewLoader(1).Load(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, fallbackShelfLife, rows[0].ShelfLifeDays)
	assert.False(t, rows[0].Perishable)
}

func TestLoadMissingColumns(t *testing.T) {
	csvData := strings.Join([]string{
		"date,product,sales",
		"2024-03-04,Milk,80",
	}, "\n")

	_, err := NewLoader(1).Load(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
	assert.Contains(t, err.Error(), "stock")
	assert.Contains(t, err.Error(), "waste")
	assert.Contains(t, err.Error(), "price")
}

func TestLoadBadDateFailsWithLineNumber(t *testing.T) {
	csvData := strings.Join([]string{
		"date,product,category,sales,stock,waste,price",
		"2024-03-04,Milk,Dairy,80,100,20,2.50",
		"not-a-date,Bread,Bakery,30,40,10,1.20",
	}, "\n")

	_, err := NewLoader(1).Load(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "not-a-date")
}

func TestWriteCSVRoundTrip(t *testing.T) {
	generated := datagen.New(5).Generate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 3, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, generated))

	loaded, err := NewLoader(1).Load(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, len(generated))

	for i := range generated {
		assert.Equal(t, generated[i].Date, loaded[i].Date, "row %d", i)
		assert.Equal(t, generated[i].StoreID, loaded[i].StoreID, "row %d", i)
		assert.Equal(t, generated[i].Product, loaded[i].Product, "row %d", i)
		assert.Equal(t, generated[i].Category, loaded[i].Category, "row %d", i)
		assert.InDelta(t, generated[i].Sales, loaded[i].Sales, 1e-9, "row %d", i)
		assert.InDelta(t, generated[i].Waste, loaded[i].Waste, 1e-9, "row %d", i)
		assert.Equal(t, generated[i].ShelfLifeDays, loaded[i].ShelfLifeDays, "row %d", i)
		assert.Equal(t, generated[i].Perishable, loaded[i].Perishable, "row %d", i)
	}
}
