package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := OpenRegistry(t.TempDir())
	require.NoError(t, err)
	return reg
}

func TestRegistryCreateAndUse(t *testing.T) {
	reg := openTestRegistry(t)

	created, err := reg.Create("shop")
	require.NoError(t, err)
	assert.Equal(t, 0, created.RowCount())

	used, err := reg.Use("shop")
	require.NoError(t, err)
	assert.Same(t, created, used)
}

func TestRegistryCreateDuplicate(t *testing.T) {
	reg := openTestRegistry(t)
	_, err := reg.Create("shop")
	require.NoError(t, err)

	_, err = reg.Create("shop")
	var exists *DatabaseExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "shop", exists.Name)
}

func TestRegistryUseUnknown(t *testing.T) {
	reg := openTestRegistry(t)
	_, err := reg.Use("nope")
	var missing *DatabaseNotFoundError
	require.ErrorAs(t, err, &missing)
}

func TestRegistryDrop(t *testing.T) {
	reg := openTestRegistry(t)
	_, err := reg.Create("shop")
	require.NoError(t, err)

	require.NoError(t, reg.Drop("shop"))

	_, err = reg.Use("shop")
	var missing *DatabaseNotFoundError
	require.ErrorAs(t, err, &missing)

	var missing2 *DatabaseNotFoundError
	require.ErrorAs(t, reg.Drop("shop"), &missing2)
}

func TestRegistryListSorted(t *testing.T) {
	reg := openTestRegistry(t)
	for _, name := range []string{"zoo", "alpha", "shop"} {
		_, err := reg.Create(name)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"alpha", "shop", "zoo"}, reg.List())
}

func TestRegistryCreateBuildsSecondaryIndex(t *testing.T) {
	reg := openTestRegistry(t)
	tbl, err := reg.Create("shop")
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(Row{int64(1), "pen"}))
	assert.Len(t, tbl.SelectByIndex("pen"), 1)
}

func TestRegistryFlushAllAndReload(t *testing.T) {
	dir := t.TempDir()
	reg, err := OpenRegistry(dir)
	require.NoError(t, err)

	tbl, err := reg.Create("shop")
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(Row{int64(1), "pen"}))
	require.NoError(t, reg.FlushAll())

	// Drop preserves the file on disk.
	require.NoError(t, reg.Drop("shop"))
	_, err = os.Stat(filepath.Join(dir, "shop.dat"))
	require.NoError(t, err)

	// Re-creating the database reloads the persisted rows and rebuilds
	// the index over them.
	reloaded, err := reg.Create("shop")
	require.NoError(t, err)
	row, err := reloaded.Get(1)
	require.NoError(t, err)
	assert.Equal(t, Row{int64(1), "pen"}, row)
	assert.Len(t, reloaded.SelectByIndex("pen"), 1)
}

func TestRegistryPersistsAcrossRegistries(t *testing.T) {
	dir := t.TempDir()

	reg1, err := OpenRegistry(dir)
	require.NoError(t, err)
	tbl, err := reg1.Create("shop")
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(Row{int64(7), "stapler"}))
	require.NoError(t, reg1.FlushAll())

	reg2, err := OpenRegistry(dir)
	require.NoError(t, err)
	tbl2, err := reg2.Create("shop")
	require.NoError(t, err)
	row, err := tbl2.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "stapler", row[1])
}
