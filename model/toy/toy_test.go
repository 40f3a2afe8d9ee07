package toy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToyLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := testutil.NewTestDB(t)
	require.NoError(t, db.ClearCollections(ctx, d, Collection))

	robot := &Toy{Fields: map[string]any{"name": "Robot", "price": 20.0}}
	require.NoError(t, robot.Insert(ctx, d))
	assert.False(t, robot.Id.IsZero())

	kite := &Toy{Fields: map[string]any{"name": "Kite"}}
	require.NoError(t, kite.Insert(ctx, d))

	found, err := FindOneId(ctx, d, robot.Id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, robot.Id, found.Id)
	assert.Equal(t, "Robot", found.Fields["name"])
	assert.EqualValues(t, 20, found.Fields["price"])

	all, err := Find(ctx, d, All)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	info, err := Remove(ctx, d, robot.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Removed)

	found, err = FindOneId(ctx, d, robot.Id)
	assert.NoError(t, err)
	assert.Nil(t, found)

	info, err = Remove(ctx, d, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Zero(t, info.Removed)
}

func TestFindOnEmptyCollection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := testutil.NewTestDB(t)

	toys, err := Find(ctx, d, All)
	require.NoError(t, err)
	assert.NotNil(t, toys)
	assert.Empty(t, toys)
}
