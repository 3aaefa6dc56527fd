package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit_OutsideTransactionRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func() { ran = true })
	assert.True(t, ran)
}

func TestAfterCommit_DeferredUntilCommit(t *testing.T) {
	ctx, commit := WithAfterCommit(context.Background())

	var order []string
	AfterCommit(ctx, func() { order = append(order, "first") })
	AfterCommit(ctx, func() { order = append(order, "second") })
	assert.Empty(t, order)

	commit()
	assert.Equal(t, []string{"first", "second"}, order)

	commit()
	assert.Len(t, order, 2)
}

func TestAfterCommit_NestedRunsAtOutermostCommit(t *testing.T) {
	outer, commitOuter := WithAfterCommit(context.Background())
	inner, commitInner := WithAfterCommit(outer)

	ran := false
	AfterCommit(inner, func() { ran = true })

	commitInner()
	assert.False(t, ran)

	commitOuter()
	assert.True(t, ran)
}

func TestAfterCommit_DroppedWithoutCommit(t *testing.T) {
	ctx, _ := WithAfterCommit(context.Background())

	ran := false
	AfterCommit(ctx, func() { ran = true })
	assert.False(t, ran)
}
