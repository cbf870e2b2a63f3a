package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/shareit/internal/model"
)

func TestCommentCreateAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	author := createTestUser(t, db, "Ann")
	drill := createTestItem(t, db, owner.ID, "Drill", "d", true)
	saw := createTestItem(t, db, owner.ID, "Saw", "s", true)

	c1 := &model.Comment{ItemID: drill.ID, AuthorID: author.ID, Text: "great", Created: base}
	c2 := &model.Comment{ItemID: saw.ID, AuthorID: author.ID, Text: "sharp", Created: base.Add(hour)}
	require.NoError(t, db.Comments().Create(ctx, c1))
	require.NoError(t, db.Comments().Create(ctx, c2))
	require.NotZero(t, c1.ID)

	got, err := db.Comments().ListByItemIDs(ctx, []int64{drill.ID, saw.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "great", got[0].Text)
	assert.Equal(t, "Ann", got[0].AuthorName)
	assert.Equal(t, drill.ID, got[0].ItemID)
	assert.True(t, got[1].Created.Equal(base.Add(hour)))

	only, err := db.Comments().ListByItemIDs(ctx, []int64{saw.ID})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "sharp", only[0].Text)
}
