// internal/services/subcategory_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func TestSubcategoryNameUniquePerCategory(t *testing.T) {
	env := newTestEnv(t)
	illustrations := env.createCategory(t, "Illustrations")
	photographies := env.createCategory(t, "Photographies")

	// The same subcategory name may exist under different categories.
	first := env.createSubcategory(t, illustrations.ID, "Japon")
	_, err := env.subcategories.CreateSubcategory(photographies.ID, env.actor, &CreateSubcategoryRequest{
		Name: "Japon",
		Slug: "japon-photo",
	})
	require.NoError(t, err)

	// But not twice under the same one.
	_, err = env.subcategories.CreateSubcategory(illustrations.ID, env.actor, &CreateSubcategoryRequest{
		Name: "Japon",
		Slug: "japon-bis",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateValue(err))

	assert.NotEqual(t, uuid.Nil, first.ID)
}

func TestSubcategorySlugGloballyUnique(t *testing.T) {
	env := newTestEnv(t)
	illustrations := env.createCategory(t, "Illustrations")
	photographies := env.createCategory(t, "Photographies")

	env.createSubcategory(t, illustrations.ID, "Japon")

	// Different parent, different name, but the same slug.
	_, err := env.subcategories.CreateSubcategory(photographies.ID, env.actor, &CreateSubcategoryRequest{
		Name: "Pays du Soleil Levant",
		Slug: "japon",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateValue(err))
}

func TestCreateSubcategoryUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.subcategories.CreateSubcategory(uuid.New(), env.actor, &CreateSubcategoryRequest{
		Name: "Japon",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMoveSubcategoryIntoCategoryWithClashingSibling(t *testing.T) {
	env := newTestEnv(t)
	illustrations := env.createCategory(t, "Illustrations")
	photographies := env.createCategory(t, "Photographies")

	env.createSubcategory(t, illustrations.ID, "Japon")
	moving, err := env.subcategories.CreateSubcategory(photographies.ID, env.actor, &CreateSubcategoryRequest{
		Name: "Japon",
		Slug: "japon-photo",
	})
	require.NoError(t, err)

	// Moving into Illustrations would put two "Japon" under one parent.
	_, err = env.subcategories.UpdateSubcategory(moving.ID, env.actor, &UpdateSubcategoryRequest{
		CategoryID: &illustrations.ID,
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateValue(err))
}

func TestMoveSubcategoryIntoCleanCategory(t *testing.T) {
	env := newTestEnv(t)
	illustrations := env.createCategory(t, "Illustrations")
	affiches := env.createCategory(t, "Affiches")

	moving := env.createSubcategory(t, illustrations.ID, "Japon")

	updated, err := env.subcategories.UpdateSubcategory(moving.ID, env.actor, &UpdateSubcategoryRequest{
		CategoryID: &affiches.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, affiches.ID, updated.CategoryID)
}

func TestUpdateSubcategoryNoopRename(t *testing.T) {
	env := newTestEnv(t)
	illustrations := env.createCategory(t, "Illustrations")
	subcategory := env.createSubcategory(t, illustrations.ID, "Japon")

	updated, err := env.subcategories.UpdateSubcategory(subcategory.ID, env.actor, &UpdateSubcategoryRequest{
		Name: "Japon",
	})
	require.NoError(t, err)
	assert.Equal(t, "Japon", updated.Name)
}

func TestDeleteSubcategory(t *testing.T) {
	env := newTestEnv(t)
	illustrations := env.createCategory(t, "Illustrations")
	subcategory := env.createSubcategory(t, illustrations.ID, "Japon")

	require.NoError(t, env.subcategories.DeleteSubcategory(subcategory.ID, env.actor))

	_, err := env.subcategories.GetSubcategory(subcategory.ID)
	assert.True(t, IsNotFound(err))
}
