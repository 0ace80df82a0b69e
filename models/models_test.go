package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "runs", Run{}.TableName())
	assert.Equal(t, "work_items", WorkItem{}.TableName())
}

func TestDefaultsAndAssociations(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&Run{}, &WorkItem{}))

	run := &Run{
		ID:         "run1",
		ModuleName: "bindgen",
		WorkItems: []WorkItem{
			{ID: "w1", Seq: 0, Kind: "make_unique", TypeName: "Widget"},
			{ID: "w2", Seq: 1, Kind: "by_value_wrapper", FnName: "clone_widget"},
		},
	}
	require.NoError(t, gdb.Create(run).Error)

	var loaded Run
	require.NoError(t, gdb.Preload("WorkItems").First(&loaded, "id = ?", "run1").Error)
	assert.Equal(t, "complete", loaded.Status)
	assert.False(t, loaded.CreatedAt.IsZero())
	require.Len(t, loaded.WorkItems, 2)
	for _, it := range loaded.WorkItems {
		assert.Equal(t, "run1", it.RunID)
		assert.Equal(t, "pending", it.Status)
	}
}
