package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/convert"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := Connect(":memory:", false)
	require.NoError(t, err)
	return gdb
}

// stagedResult runs a real conversion so the persisted shapes match what
// production hands to SaveRun: one factory need and one wrapper need.
func stagedResult(t *testing.T) (ast.Module, *convert.Result) {
	t.Helper()
	mod := ast.Module{Name: "bindgen", Items: []ast.Item{
		&ast.StructDecl{Name: "Widget", Fields: []ast.Field{
			{Name: "data", Type: &ast.PointerType{Elem: &ast.NamedType{Name: "u8"}}},
		}},
		&ast.ForeignBlock{ABI: "C", Items: []ast.ForeignItem{
			&ast.ForeignFn{Sig: ast.FnSig{
				Name:   "clone_widget",
				Params: []ast.Param{{Name: "w", Type: &ast.NamedType{Name: "Widget"}}},
				Return: &ast.NamedType{Name: "Widget"},
			}},
		}},
		&ast.ImplBlock{
			SelfType: &ast.NamedType{Name: "Widget"},
			Methods: []ast.Method{{Sig: ast.FnSig{
				Name:   "new",
				Return: &ast.NamedType{Name: "Widget"},
			}}},
		},
	}}
	res, err := convert.New([]string{"widget.h"}, nil).Convert(mod, "", nil)
	require.NoError(t, err)
	return mod, res
}

func TestConnectInMemory(t *testing.T) {
	gdb := testDB(t)

	// Migrations ran: both tables exist.
	assert.True(t, gdb.Migrator().HasTable("runs"))
	assert.True(t, gdb.Migrator().HasTable("work_items"))
}

func TestSaveRunRoundTrip(t *testing.T) {
	gdb := testDB(t)
	mod, res := stagedResult(t)

	run, err := SaveRun(gdb, mod, RunParams{
		IncludeList:     []string{"widget.h"},
		TrivialRequests: nil,
		Renames:         map[string]string{"clone_widget": "cloneWidget"},
	}, res)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, "bindgen", run.ModuleName)
	assert.Len(t, run.InputDigest, 64)
	assert.Equal(t, "complete", run.Status)
	require.Len(t, run.WorkItems, len(res.Needs))

	loaded, err := GetRun(gdb, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, run.InputDigest, loaded.InputDigest)
	assert.NotEmpty(t, loaded.Diff)
	require.Len(t, loaded.WorkItems, len(res.Needs))

	// Work items persist in declaration order with the need identity
	// denormalized for listing.
	kinds := map[string]int{}
	for i, it := range loaded.WorkItems {
		assert.Equal(t, i, it.Seq)
		assert.Equal(t, run.ID, it.RunID)
		assert.Equal(t, "pending", it.Status)
		assert.NotEmpty(t, it.Payload)
		kinds[it.Kind]++
	}
	assert.Equal(t, 1, kinds[string(convert.NeedByValueWrapper)])
	assert.Equal(t, 1, kinds[string(convert.NeedMakeUnique)])
}

func TestListWork(t *testing.T) {
	gdb := testDB(t)
	mod, res := stagedResult(t)

	run, err := SaveRun(gdb, mod, RunParams{}, res)
	require.NoError(t, err)

	items, err := ListWork(gdb, run.ID)
	require.NoError(t, err)
	require.Len(t, items, len(res.Needs))
	for i, it := range items {
		assert.Equal(t, i, it.Seq)
	}

	// Without a run filter only pending items show up.
	pending, err := ListWork(gdb, "")
	require.NoError(t, err)
	assert.Len(t, pending, len(res.Needs))

	require.NoError(t, CompleteWork(gdb, items[0].ID))
	pending, err = ListWork(gdb, "")
	require.NoError(t, err)
	assert.Len(t, pending, len(res.Needs)-1)
}

func TestClaimWorkLifecycle(t *testing.T) {
	gdb := testDB(t)
	mod, res := stagedResult(t)

	run, err := SaveRun(gdb, mod, RunParams{}, res)
	require.NoError(t, err)

	claimed := map[string]bool{}
	for range run.WorkItems {
		item, err := ClaimWork(gdb)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "claimed", item.Status)
		require.NotNil(t, item.ClaimedAt)
		assert.False(t, claimed[item.ID], "each item is claimed at most once")
		claimed[item.ID] = true

		require.NoError(t, CompleteWork(gdb, item.ID))
	}

	// Queue drained.
	item, err := ClaimWork(gdb)
	require.NoError(t, err)
	assert.Nil(t, item)

	items, err := ListWork(gdb, run.ID)
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, "done", it.Status)
		assert.NotNil(t, it.DoneAt)
	}
}

func TestCompleteWorkUnknownID(t *testing.T) {
	gdb := testDB(t)

	err := CompleteWork(gdb, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestListRuns(t *testing.T) {
	gdb := testDB(t)
	mod, res := stagedResult(t)

	first, err := SaveRun(gdb, mod, RunParams{}, res)
	require.NoError(t, err)
	second, err := SaveRun(gdb, mod, RunParams{}, res)
	require.NoError(t, err)

	runs, err := ListRuns(gdb, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	limited, err := ListRuns(gdb, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	ids := map[string]bool{first.ID: true, second.ID: true}
	assert.True(t, ids[limited[0].ID])
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("libsql://db.example.turso.io"))
	assert.True(t, isURL("https://db.example.turso.io"))
	assert.True(t, isURL("http://localhost:8080"))
	assert.False(t, isURL(":memory:"))
	assert.False(t, isURL("staging.db"))
	assert.False(t, isURL("/var/lib/bridgec/staging.db"))
}
