package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostClone(t *testing.T) {
	body := "body"
	orig := Post{ID: "p1", Tags: []string{"go", "web"}, Content: &body}

	cp := orig.Clone()
	cp.Tags[0] = "rust"
	*cp.Content = "changed"

	assert.Equal(t, []string{"go", "web"}, orig.Tags)
	assert.Equal(t, "body", *orig.Content)
	assert.Nil(t, Post{}.Clone().Tags)
}

func TestPostWithContent(t *testing.T) {
	orig := Post{ID: "p1", Tags: []string{"go"}}

	full := orig.WithContent("hello")
	require.NotNil(t, full.Content)
	assert.Equal(t, "hello", *full.Content)
	assert.Nil(t, orig.Content)

	full.Tags[0] = "changed"
	assert.Equal(t, "go", orig.Tags[0])
	assert.Nil(t, full.WithoutContent().Content)
}
