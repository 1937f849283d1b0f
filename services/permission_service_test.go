package services

import (
	"fmt"
	"testing"

	"github.com/GrainArc/MarkMap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrecedence(t *testing.T) {
	db := newTestDB(t)
	perms := NewPermissionService(db)

	owner := createUser(t, db, "owner", false)
	super := createUser(t, db, "root", true)
	editor := createUser(t, db, "editor", false)
	viewer := createUser(t, db, "viewer", false)
	stranger := createUser(t, db, "stranger", false)

	private := createMap(t, db, owner, "private", false)
	public := createMap(t, db, owner, "public", true)
	createShare(t, db, private, editor, owner, models.PermEdit)
	createShare(t, db, private, viewer, owner, models.PermView)

	assert.Equal(t, LevelOwner, perms.Resolve(super, private))
	assert.Equal(t, LevelOwner, perms.Resolve(owner, private))
	assert.Equal(t, LevelEdit, perms.Resolve(editor, private))
	assert.Equal(t, LevelView, perms.Resolve(viewer, private))
	assert.Equal(t, LevelNone, perms.Resolve(stranger, private))
	assert.Equal(t, LevelView, perms.Resolve(stranger, public))
}

func TestResolveOwnerBeatsBogusGrant(t *testing.T) {
	db := newTestDB(t)
	perms := NewPermissionService(db)

	owner := createUser(t, db, "owner", false)
	other := createUser(t, db, "other", false)
	m := createMap(t, db, owner, "m", false)
	// 正常流程不会出现拥有者的分享记录，但解析器不能被它误导
	createShare(t, db, m, owner, other, models.PermView)

	assert.Equal(t, LevelOwner, perms.Resolve(owner, m))
}

func TestResolveIsPure(t *testing.T) {
	db := newTestDB(t)
	perms := NewPermissionService(db)

	owner := createUser(t, db, "owner", false)
	user := createUser(t, db, "user", false)
	m := createMap(t, db, owner, "m", false)
	createShare(t, db, m, user, owner, models.PermAdmin)

	first := perms.Resolve(user, m)
	second := perms.Resolve(user, m)
	assert.Equal(t, first, second)
	assert.Equal(t, LevelAdmin, first)
}

func TestResolveReflectsGrantChanges(t *testing.T) {
	db := newTestDB(t)
	perms := NewPermissionService(db)

	owner := createUser(t, db, "owner", false)
	user := createUser(t, db, "user", false)
	m := createMap(t, db, owner, "m", false)
	share := createShare(t, db, m, user, owner, models.PermView)

	assert.Equal(t, LevelView, perms.Resolve(user, m))
	require.NoError(t, db.Model(share).Update("permission", models.PermAdmin).Error)
	assert.Equal(t, LevelAdmin, perms.Resolve(user, m))
	require.NoError(t, db.Delete(share).Error)
	assert.Equal(t, LevelNone, perms.Resolve(user, m))
}

func TestCapabilityTableMonotonic(t *testing.T) {
	levels := []PermissionLevel{LevelNone, LevelView, LevelEdit, LevelAdmin, LevelOwner}
	caps := []Capability{
		CapRead, CapEditMap, CapDeleteMap, CapManageLayer, CapDeleteLayer,
		CapManagePOI, CapDeletePOI, CapCreateShare, CapManageShare,
	}
	for _, cap := range caps {
		allowed := false
		for _, l := range levels {
			if l.Allows(cap) {
				allowed = true
			}
			// 一旦某级别放行，更高级别不得再拒绝
			if allowed {
				assert.True(t, l.Allows(cap), fmt.Sprintf("cap=%v level=%v", cap, l))
			}
		}
		assert.True(t, LevelOwner.Allows(cap))
	}
}

func TestCapabilityCarveOuts(t *testing.T) {
	// 删地图和管理分享仅限拥有者
	assert.False(t, LevelAdmin.Allows(CapDeleteMap))
	assert.False(t, LevelAdmin.Allows(CapManageShare))
	assert.True(t, LevelOwner.Allows(CapDeleteMap))
	assert.True(t, LevelOwner.Allows(CapManageShare))

	// edit能建子资源但不能删
	assert.True(t, LevelEdit.Allows(CapManageLayer))
	assert.True(t, LevelEdit.Allows(CapManagePOI))
	assert.True(t, LevelEdit.Allows(CapCreateShare))
	assert.False(t, LevelEdit.Allows(CapDeleteLayer))
	assert.False(t, LevelEdit.Allows(CapDeletePOI))

	assert.True(t, LevelAdmin.Allows(CapDeleteLayer))
	assert.True(t, LevelAdmin.Allows(CapDeletePOI))

	assert.False(t, LevelView.Allows(CapEditMap))
	assert.False(t, LevelNone.Allows(CapRead))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelView, ParseLevel("view"))
	assert.Equal(t, LevelEdit, ParseLevel("edit"))
	assert.Equal(t, LevelAdmin, ParseLevel("admin"))
	assert.Equal(t, LevelNone, ParseLevel("bogus"))
	assert.Equal(t, "owner", LevelOwner.String())
	assert.Equal(t, "none", LevelNone.String())
}

func TestFlags(t *testing.T) {
	f := Flags(LevelEdit)
	assert.Equal(t, "edit", f.Permission)
	assert.True(t, f.CanView)
	assert.True(t, f.CanEdit)
	assert.True(t, f.CanAddLayer)
	assert.True(t, f.CanShare)
	assert.False(t, f.CanDelete)
	assert.False(t, f.CanDelLayer)
	assert.False(t, f.CanManage)
}
