package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/salesdata/pkg/models"
)

func row(date, product, region string) models.RawRow {
	return models.RawRow{
		models.ColumnDate:    date,
		models.ColumnProduct: product,
		models.ColumnRegion:  region,
		models.ColumnAmount:  "10",
	}
}

func TestFilters(t *testing.T) {
	none := &filters{}
	keep, err := none.toFilterFunc()
	require.NoError(t, err)
	assert.Nil(t, keep)

	f := &filters{startDate: "2024-01-10", endDate: "2024-01-31", region: "north"}
	keep, err = f.toFilterFunc()
	require.NoError(t, err)

	tests := []struct {
		row  models.RawRow
		want bool
	}{
		{row("15/1/2024", "Widget", "North"), true},
		{row("10/1/2024", "Widget", " NORTH "), true},
		{row("31/1/2024", "Widget", "North"), true},
		{row("9/1/2024", "Widget", "North"), false},
		{row("1/2/2024", "Widget", "North"), false},
		{row("15/1/2024", "Widget", "South"), false},
		{row("not a date", "Widget", "North"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keep(tt.row), "row %v", tt.row)
	}
}

func TestFiltersProduct(t *testing.T) {
	keep, err := (&filters{product: "gadget"}).toFilterFunc()
	require.NoError(t, err)
	assert.True(t, keep(row("", "Gadget", "")))
	assert.False(t, keep(row("15/1/2024", "Widget", "North")))
}

func TestFiltersInvalidDate(t *testing.T) {
	_, err := (&filters{startDate: "01/02/2024"}).toFilterFunc()
	assert.Error(t, err)
	_, err = (&filters{endDate: "tomorrow"}).toFilterFunc()
	assert.Error(t, err)
}
