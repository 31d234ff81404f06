package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("posts"))
	assert.True(t, ValidIdentifier("_blog_posts2"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("2posts"))
	assert.False(t, ValidIdentifier("posts;drop"))
	assert.False(t, ValidIdentifier("public.posts"))
}

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := OpenSQL(ctx, "sqlite3", "file::memory:?cache=shared", "blog_posts")
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = sqlDB.ExecContext(ctx,
		`INSERT INTO blog_posts (id, title, category, tags, content) VALUES ($1, $2, $3, $4, $5)`,
		"s1", "Local Post", "Career", "growth", "hello")
	require.NoError(t, err)

	var content string
	require.NoError(t, sqlDB.QueryRowContext(ctx, `SELECT content FROM blog_posts WHERE id = $1`, "s1").Scan(&content))
	assert.Equal(t, "hello", content)
}

func TestOpenSQLRejectsBadTable(t *testing.T) {
	_, err := OpenSQL(context.Background(), "sqlite3", ":memory:", "x; DROP")
	require.Error(t, err)
}
