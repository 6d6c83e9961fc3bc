package importer

import (
	"os"
	"path/filepath"
	"testing"

	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiles_Get(t *testing.T) {
	profiles := DefaultProfiles()

	p, err := profiles.Get("")
	require.NoError(t, err)
	assert.Equal(t, gormModels.JobTypeIBT, p.Type)

	p, err = profiles.Get(" ORDER ")
	require.NoError(t, err)
	assert.Equal(t, gormModels.JobTypeOrder, p.Type)
	assert.True(t, p.RequireCustomer)

	_, err = profiles.Get("returns")
	assert.Error(t, err)
}

const overrideYAML = `
order:
  requireCustomer: false
  defaultPickup: Depot 1
  aliases:
    customer: [debtor, customer]
ibt:
  preferred:
    ref: [doc ref]
`

func TestProfiles_Overlay(t *testing.T) {
	profiles := DefaultProfiles()
	require.NoError(t, profiles.Overlay([]byte(overrideYAML)))

	order := profiles[gormModels.JobTypeOrder]
	assert.False(t, order.RequireCustomer)
	assert.Equal(t, "Depot 1", order.DefaultPickup)
	assert.Equal(t, "Customer Site", order.DefaultDropoff, "omitted keys keep defaults")
	assert.Equal(t, []string{"debtor", "customer"}, order.Aliases[FieldCustomer])

	ibt := profiles[gormModels.JobTypeIBT]
	assert.Equal(t, []string{"doc ref"}, ibt.Preferred[FieldRef])
	assert.Equal(t, []string{"warehouse"}, ibt.Preferred[FieldWarehouse])
	assert.Equal(t, IBTCustomer, ibt.CustomerConstant)

	fresh := OrderProfile()
	assert.Equal(t, "customer", fresh.Aliases[FieldCustomer][0], "defaults are not shared")
}

func TestProfiles_OverlayErrors(t *testing.T) {
	assert.Error(t, DefaultProfiles().Overlay([]byte("returns:\n  refPrefix: RET\n")))
	assert.Error(t, DefaultProfiles().Overlay([]byte("ibt: [unclosed")))
}

func TestLoadProfiles(t *testing.T) {
	profiles, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Len(t, profiles, 2)

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overrideYAML), 0o600))

	profiles, err = LoadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, "Depot 1", profiles[gormModels.JobTypeOrder].DefaultPickup)

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOverlayChangesMapping(t *testing.T) {
	profiles := DefaultProfiles()
	require.NoError(t, profiles.Overlay([]byte(overrideYAML)))

	m := NewRowMapper(profiles[gormModels.JobTypeOrder], []string{"Order No", "Debtor"}, nowFunc)
	rec, err := m.Map([]any{"SO-5", "Acme"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.Customer)
	assert.Equal(t, "Depot 1", rec.Pickup)
}
