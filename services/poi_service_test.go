package services

import (
	"testing"

	"github.com/GrainArc/MarkMap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPOICreateCrossMapLayerRejected(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	pois := NewPOIService(db, maps)

	owner := createUser(t, db, "owner", false)
	m1 := createMap(t, db, owner, "m1", false)
	m2 := createMap(t, db, owner, "m2", false)
	foreign := createLayer(t, db, m2, "foreign")

	_, err := pois.Create(owner, &POIRequest{
		Name: "p", MapID: m1.ID, LayerID: &foreign.ID, XPosition: 10, YPosition: 10,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPOIUpdateCrossMapLayerRejected(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	pois := NewPOIService(db, maps)

	owner := createUser(t, db, "owner", false)
	m1 := createMap(t, db, owner, "m1", false)
	m2 := createMap(t, db, owner, "m2", false)
	foreign := createLayer(t, db, m2, "foreign")
	poi := createPOI(t, db, m1, owner, "p", nil)

	_, err := pois.Update(owner, poi.ID, &POIUpdateRequest{LayerID: &foreign.ID})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPOIPositionValidation(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	pois := NewPOIService(db, maps)

	owner := createUser(t, db, "owner", false)
	m := createMap(t, db, owner, "m", false)

	_, err := pois.Create(owner, &POIRequest{Name: "p", MapID: m.ID, XPosition: 101, YPosition: 10})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = pois.Create(owner, &POIRequest{Name: "p", MapID: m.ID, XPosition: 10, YPosition: -1})
	assert.ErrorIs(t, err, ErrValidation)

	// 坐标保留3位小数
	poi, err := pois.Create(owner, &POIRequest{Name: "p", MapID: m.ID, XPosition: 12.34567, YPosition: 99.9999})
	require.NoError(t, err)
	assert.InDelta(t, 12.346, poi.XPosition, 1e-9)
	assert.InDelta(t, 100.0, poi.YPosition, 1e-9)
}

func TestPOIEffectiveColor(t *testing.T) {
	layer := &models.MapLayer{Color: "#2ecc71"}

	withOwn := &models.PointOfInterest{Color: "#ff0000", Layer: layer}
	assert.Equal(t, "#ff0000", withOwn.EffectiveColor())

	fromLayer := &models.PointOfInterest{Color: "", Layer: layer}
	assert.Equal(t, "#2ecc71", fromLayer.EffectiveColor())

	fallback := &models.PointOfInterest{}
	assert.Equal(t, models.DefaultColor, fallback.EffectiveColor())
}

func TestPOICreateRequiresEdit(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	pois := NewPOIService(db, maps)

	owner := createUser(t, db, "owner", false)
	visitor := createUser(t, db, "visitor", false)
	public := createMap(t, db, owner, "public", true)

	// 仅凭公开地图的view权限不能加点
	_, err := pois.Create(visitor, &POIRequest{Name: "p", MapID: public.ID, XPosition: 1, YPosition: 1})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPOIDeleteRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	pois := NewPOIService(db, maps)

	owner := createUser(t, db, "owner", false)
	editor := createUser(t, db, "editor", false)
	admin := createUser(t, db, "admin", false)
	m := createMap(t, db, owner, "m", false)
	createShare(t, db, m, editor, owner, models.PermEdit)
	createShare(t, db, m, admin, owner, models.PermAdmin)

	poi, err := pois.Create(editor, &POIRequest{Name: "p", MapID: m.ID, XPosition: 1, YPosition: 1})
	require.NoError(t, err)
	assert.Equal(t, editor.ID, poi.CreatedByID)

	// 创建者自己也删不掉，删除要求admin
	assert.ErrorIs(t, pois.Delete(editor, poi.ID), ErrForbidden)
	require.NoError(t, pois.Delete(admin, poi.ID))
}

func TestPOISorting(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	pois := NewPOIService(db, maps)

	owner := createUser(t, db, "owner", false)
	m := createMap(t, db, owner, "m", false)
	la := createLayer(t, db, m, "alpha")
	lb := createLayer(t, db, m, "beta")
	createPOI(t, db, m, owner, "charlie", &lb.ID)
	createPOI(t, db, m, owner, "alice", &la.ID)
	createPOI(t, db, m, owner, "bob", nil)

	got, err := pois.ListOfMap(owner, m.ID, "name", "asc")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "alice", got[0].Name)
	assert.Equal(t, "bob", got[1].Name)
	assert.Equal(t, "charlie", got[2].Name)

	got, err = pois.ListOfMap(owner, m.ID, "name", "desc")
	require.NoError(t, err)
	assert.Equal(t, "charlie", got[0].Name)

	got, err = pois.ListOfMap(owner, m.ID, "layer", "asc")
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestPOIGroupByLayer(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	pois := NewPOIService(db, maps)

	owner := createUser(t, db, "owner", false)
	m := createMap(t, db, owner, "m", false)
	la := createLayer(t, db, m, "alpha")
	createLayer(t, db, m, "empty")
	createPOI(t, db, m, owner, "p1", &la.ID)
	createPOI(t, db, m, owner, "p2", &la.ID)
	createPOI(t, db, m, owner, "loose", nil)

	groups, err := pois.GroupByLayer(owner, m.ID)
	require.NoError(t, err)
	// alpha + empty + 无图层组
	require.Len(t, groups, 3)
	assert.Equal(t, "alpha", groups[0].Layer.Name)
	assert.Len(t, groups[0].POIs, 2)
	assert.Len(t, groups[1].POIs, 0)
	assert.Nil(t, groups[2].Layer)
	require.Len(t, groups[2].POIs, 1)
	assert.Equal(t, "loose", groups[2].POIs[0].Name)
}

func TestLayerDeleteNullifiesPOIs(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	layers := NewLayerService(db, maps)

	owner := createUser(t, db, "owner", false)
	m := createMap(t, db, owner, "m", false)
	layer := createLayer(t, db, m, "roads")
	poi := createPOI(t, db, m, owner, "p", &layer.ID)

	require.NoError(t, layers.Delete(owner, layer.ID))

	// 兴趣点保留，仅失去图层关联
	var got models.PointOfInterest
	require.NoError(t, db.First(&got, poi.ID).Error)
	assert.Nil(t, got.LayerID)
}

func TestLayerScenarioEditCanCreateNotDelete(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	layers := NewLayerService(db, maps)

	owner := createUser(t, db, "owner", false)
	editor := createUser(t, db, "editor", false)
	m := createMap(t, db, owner, "m", false)
	createShare(t, db, m, editor, owner, models.PermEdit)

	layer, err := layers.Create(editor, &LayerRequest{Name: "mine", MapID: m.ID})
	require.NoError(t, err)

	// 自己建的图层也删不了，删除要求admin
	assert.ErrorIs(t, layers.Delete(editor, layer.ID), ErrForbidden)
}

func TestLayerDuplicateNameConflict(t *testing.T) {
	db := newTestDB(t)
	maps := newTestMapService(t, db)
	layers := NewLayerService(db, maps)

	owner := createUser(t, db, "owner", false)
	m := createMap(t, db, owner, "m", false)
	other := createMap(t, db, owner, "other", false)

	_, err := layers.Create(owner, &LayerRequest{Name: "roads", MapID: m.ID})
	require.NoError(t, err)
	_, err = layers.Create(owner, &LayerRequest{Name: "roads", MapID: m.ID})
	assert.ErrorIs(t, err, ErrConflict)

	// 别的地图可以重名
	_, err = layers.Create(owner, &LayerRequest{Name: "roads", MapID: other.ID})
	assert.NoError(t, err)
}
